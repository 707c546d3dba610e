package game

// concludeTurnLocked ends the player's turn and hands the table to the bots
// and the dealer.
func (e *Engine) concludeTurnLocked() {
	s := e.session
	s.IsPlaying = false
	s.CanDouble = false
	s.IsBotActive = true
	s.Phase = PhaseAutoPlay
	s.Actor = AutoPlayOrder[0]
	s.Message = ""

	total := s.Hand(Player).Total()
	e.logger.Debug("Player turn over", "total", total, "bust", total > Blackjack)
	e.bus.Publish(NewAutoPlayStartEvent(e.clock.Now(), total))

	e.scheduleLocked(func() {
		e.autoPlayLocked(AutoPlayOrder[0])
	})
}

// scheduleLocked runs step after the autoplay delay. The continuation is a
// checkpoint: it does nothing if autoplay was cancelled or a new round began
// while it was pending.
func (e *Engine) scheduleLocked(step func()) {
	gen := e.generation
	timer := e.clock.AfterFunc(e.delay, func() {
		e.mu.Lock()
		defer e.mu.Unlock()

		if !e.session.IsBotActive || gen != e.generation {
			e.logger.Debug("Dropping stale autoplay continuation", "generation", gen, "current", e.generation)
			return
		}
		step()
	}, "autoplay")
	e.timers = append(e.timers, timer)
}

// autoPlayLocked plays actor's hand and every opponent after it. Each draw
// is deferred by one scheduled continuation; standing and moving on to the
// next opponent happen immediately.
func (e *Engine) autoPlayLocked(actor Role) {
	s := e.session
	for {
		s.Actor = actor
		h := s.Hand(actor)

		if h.Total() < e.standOn {
			e.scheduleLocked(func() {
				card := e.shoe.Draw()
				h.Add(card)
				e.logger.Debug("Opponent draws", "role", actor, "card", card, "total", h.Total())
				e.bus.Publish(NewCardDealtEvent(e.clock.Now(), actor, card, false, h.Total()))
				e.autoPlayLocked(actor)
			})
			return
		}

		e.logger.Debug("Opponent stands", "role", actor, "total", h.Total())
		e.bus.Publish(NewOpponentStandEvent(e.clock.Now(), actor, s.Identity(actor), h.Total()))

		next, ok := nextOpponent(actor)
		if !ok {
			e.settleLocked()
			return
		}
		actor = next

		if actor == Dealer {
			s.HoleRevealed = true
			dealer := s.Hand(Dealer)
			e.bus.Publish(NewHoleCardEvent(e.clock.Now(), dealer.Cards()[0], dealer.Total()))
		}
	}
}

// settleLocked resolves the round against all three opponents and applies
// the result to the wager.
func (e *Engine) settleLocked() {
	s := e.session
	player := s.Hand(Player)

	results := Resolve(player, s.Hand(Dealer), s.Hand(Bot1), s.Hand(Bot2))
	before := e.ledger.Wager()
	after := e.ledger.Settle(player.IsBlackjack(), results)

	s.Results = results
	s.Message = ComposeMessage(s, results)
	s.Phase = PhaseSettled
	s.IsBotActive = false
	s.HoleRevealed = true
	s.NeedsBet = after == 0
	e.timers = nil

	e.logger.Info("Round settled",
		"round", s.Round,
		"results", results,
		"player", player,
		"dealer", s.Hand(Dealer),
		"wager", after,
		"needsBet", s.NeedsBet)

	now := e.clock.Now()
	e.bus.Publish(NewWagerChangedEvent(now, after))
	e.bus.Publish(RoundSettledEvent{
		RoundID:         s.RoundID,
		Round:           s.Round,
		Results:         results,
		PlayerTotal:     player.Total(),
		PlayerBlackjack: player.IsBlackjack(),
		PlayerBust:      player.IsBust(),
		Doubled:         s.Doubled,
		Stake:           s.Stake,
		WagerBefore:     before,
		WagerAfter:      after,
		NeedsBet:        s.NeedsBet,
		Message:         s.Message,
		timestamp:       now,
	})
}

// cancelAutoPlayLocked stops every pending continuation and invalidates any
// that already fired but have not yet acquired the lock. It reports whether
// autoplay was running.
func (e *Engine) cancelAutoPlayLocked() bool {
	wasActive := e.session.IsBotActive
	for _, t := range e.timers {
		t.Stop()
	}
	e.timers = nil
	e.generation++
	e.session.IsBotActive = false
	return wasActive
}
