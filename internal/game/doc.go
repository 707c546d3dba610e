// Package game implements the round-resolution engine for a single blackjack
// table where one human player faces a dealer and two bots.
//
// The main type is Engine, which owns the shoe, the wager ledger and the
// Session for the round in progress. The presentation layer drives it with
// commands and observes it through events and snapshots.
//
// # Basic Usage
//
//	e := game.NewEngine(game.Options{Logger: logger})
//	e.Subscribe(subscriber)
//	_ = e.PlaceBet(100)
//	e.Hit()
//	e.Stand()
//	// bots and dealer play on the engine's clock, then the round settles
//	snap := e.Snapshot()
//	if snap.Phase == game.PhaseSettled {
//	    e.PlayAgain()
//	}
//
// # Deterministic Testing
//
// Inject a stacked shoe to script the deal and a quartz mock clock to step
// through the autoplay phase:
//
//	clock := quartz.NewMock(t)
//	shoe := deck.NewStackedShoe(randutil.New(1), deck.MustParseCards("As 5h ...")...)
//	e := game.NewEngine(game.Options{Clock: clock, Shoe: shoe})
//
// # Architecture
//
// The engine delegates to small pure components:
//   - Hand / OptimalTotal: ace-aware hand valuation
//   - Compare / Resolve: per-opponent outcome classification
//   - Ledger: wager placement, doubling and settlement
//   - ComposeMessage: the human readable round result
//
// All engine state sits behind one mutex. Player commands run synchronously;
// the bots and dealer draw from timer continuations that check a shared
// active flag and the round generation before touching state, so Reset and
// new rounds cancel them cooperatively.
package game
