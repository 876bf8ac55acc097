// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package receipt lets a voter check that their ballot was counted.

# Receipts

Each ballot line in a published file carries a receipt hash:

	hash := receipt.Hash(key, lastName, firstName)

The hash is the hex SHA-256 of the uppercased last name, a space, the
capitalized first name and the private key handed to the voter. Names are
normalized first, so "doe"/"jane" and "DOE"/"Jane" give the same receipt.

# Lookup

	r, err := receipt.Find(f, hash)
	if errors.Is(err, receipt.ErrNotFound) {
		// not counted
	}

Find returns the first line after the header containing the hash, with each
value paired to its column header.
*/
package receipt
