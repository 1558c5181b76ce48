// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package stv tabulates Single Transferable Vote elections.

# Ballots

A Ballot is a full ranking of every candidate ID, stored from lowest to
highest priority: the last element is the voter's first preference.
Tally never modifies a ballot. It keeps a cursor per ballot that moves
towards the front as preferences are used up.

# Procedure

	result := stv.Tally(ballots, ids, seats, len(ballots))

With at least as many seats as candidates everybody is elected at once.
Otherwise the Droop quota floor(electors/(seats+1))+1 is fixed for the whole
count and rounds repeat until every seat is filled:

 1. Count the current top preference of every live ballot.
 2. The candidate with most votes (ties: greater ID) is elected if they
    reach the quota. The first surplus ballots naming them, in ballot
    order, move on to their next preference. The rest are spent.
 3. Otherwise the candidate with fewest votes (ties: lesser ID) is
    eliminated and their ballots move on.

Once the candidates left equal the seats left, they are all elected in a
final round in registry order.

# Results

Result.Rounds holds one track per candidate in registry order. A track is a
vote count per round. When the candidate is elected or eliminated the track
ends with that status. Result.Events lists what happened in each round.

# Contract

Ballots that are not full rankings of the candidates, and a surplus that
cannot be transferred exactly, are programming errors and panic. Callers
check ballots with ValidBallot before tallying.
*/
package stv
