// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides election IDs, admin keys and share slugs.

# Admin Keys

Admin keys use HMAC-SHA256 to create deterministic, verifiable keys:

	adminKey := auth.GenerateAdminKey(electionID, salt)
	err := auth.ValidateAdminKey(electionID, adminKey, salt)

The key is URL-safe base64 encoded without padding and travels in the
X-Admin-Key header. Since it is derived from the election ID, it is never
stored in the database.

# Share Slugs

Share slugs are the public, read-only identifier of an election:

	slug := auth.GenerateShareSlug(electionID, salt)

Slugs are base62 encoded (alphanumeric only) from a separate salt, so a slug
reveals nothing about the admin key.

# ID Generation

	id, err := auth.GenerateID(16)  // 32 hex characters
*/
package auth
