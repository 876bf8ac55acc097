// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package methods maps a method selector to the tally functions and assembles
the resulting report.

	if err := methods.Validate(method, duelMode); err != nil {
		return err
	}
	r, err := methods.Run(method, methods.Input{Source: path, Ballots: b})

First Past The Post and Majority Judgement need individual ballots and are
rejected in duel mode with ErrDuelMode. Minimax and Schulze only run when
there is no Condorcet winner; "all" runs both as fallbacks.
*/
package methods
