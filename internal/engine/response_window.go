package engine

// ResponseWindowState is the outcome of a response window.
type ResponseWindowState int

const (
	ResponseSuccess ResponseWindowState = iota
	NoResponse
)

func (s ResponseWindowState) String() string {
	if s == ResponseSuccess {
		return "ResponseSuccess"
	}
	return "NoResponse"
}

// ResponseWindowContext configures one run of the response window
// sub-procedure.
type ResponseWindowContext struct {
	Game            *Game
	ResponseType    CardSubType
	Responders      []int // ordered seats asked in turn
	SourceSeat      int
	SourceEvent     Event
	RequiredCount   int // 0 means no response is needed at all; RuleService.GetRequiredResponseCount may raise a positive value further
	PerResponderCap int // 0 means unlimited repeats by the same responder
	PriorityFloor   int // 0 admits any card; only EffectiveResponsePriority >= floor may respond
	Key             string
}

// ResponseWindowResult reports what the window produced.
type ResponseWindowResult struct {
	State                ResponseWindowState
	ResponseUnitsProvided int
	CardsPlayed          []EffectiveView
	Responders           []int // seat that supplied each card played, parallel to CardsPlayed
}

// RunResponseWindow iterates responders in order, offering each the chance
// to supply a legal response card (including virtuals and assisted plays)
// until RequiredCount units are collected or every responder is exhausted.
// With RequiredCount > 1 a responder may contribute repeatedly, up to
// PerResponderCap if set.
func RunResponseWindow(ctx *ResolutionContext, win ResponseWindowContext) ResponseWindowResult {
	if win.RequiredCount == 0 {
		return ResponseWindowResult{State: ResponseSuccess}
	}
	required := ctx.Rules.GetRequiredResponseCount(ctx, &win, win.RequiredCount)

	result := ResponseWindowResult{State: NoResponse}
	if required <= 0 {
		result.State = ResponseSuccess
		return result
	}

	for _, responder := range win.Responders {
		contributions := 0
		for {
			if win.PerResponderCap > 0 && contributions >= win.PerResponderCap {
				break
			}
			legal := admittedByPriority(ctx.Rules.GetLegalResponses(ctx, responder, win.ResponseType), win.PriorityFloor)
			askSeats := append([]int{responder}, ctx.Rules.AssistingSeatsFor(ctx, responder)...)
			played, from := offerOnce(ctx, askSeats, legal, win)
			if played == nil {
				break
			}
			if err := playResponseCard(ctx, from, played, win); err != nil {
				ctx.Log.Error("response window card play failed", "error", err)
				break
			}
			result.CardsPlayed = append(result.CardsPlayed, played)
			result.Responders = append(result.Responders, from)
			result.ResponseUnitsProvided++
			contributions++
			required--
			if required <= 0 {
				result.State = ResponseSuccess
				return result
			}
		}
	}
	return result
}

// admittedByPriority drops any card whose EffectiveResponsePriority falls
// below floor, mirroring a chain-speed ladder where a window can demand
// faster-than-default responses. floor of 0 admits everything.
func admittedByPriority(legal []EffectiveView, floor int) []EffectiveView {
	if floor == 0 {
		return legal
	}
	out := make([]EffectiveView, 0, len(legal))
	for _, v := range legal {
		if v.EffectiveResponsePriority() >= floor {
			out = append(out, v)
		}
	}
	return out
}

// offerOnce asks each candidate seat (the responder, then any assisting
// faction-mates) whether they will supply a card, stopping at the first
// yes. legal holds the responder's own cards; each assisting seat is
// offered the legal cards from its own hand.
func offerOnce(ctx *ResolutionContext, seats []int, legal []EffectiveView, win ResponseWindowContext) (EffectiveView, int) {
	for i, seat := range seats {
		if i > 0 {
			legal = admittedByPriority(ctx.Rules.GetLegalResponses(ctx, seat, win.ResponseType), win.PriorityFloor)
		}
		if len(legal) == 0 {
			continue
		}
		allowed := make([]*Card, 0, len(legal))
		byId := make(map[CardId]EffectiveView)
		for _, v := range legal {
			byId[v.EffectiveId()] = v
			if c, ok := v.(*Card); ok {
				allowed = append(allowed, c)
			} else if vc, ok := v.(*VirtualCard); ok {
				allowed = append(allowed, vc.Underlying)
			}
		}
		req := ChoiceRequest{
			RequestId:    freshRequestId(),
			Seat:         seat,
			Type:         ChoiceSelectCards,
			Key:          win.Key,
			AllowedCards: allowed,
			MinCount:     0,
			MaxCount:     1,
		}
		res, err := ctx.GetPlayerChoice(req)
		if err != nil || !res.Confirmed || len(res.SelectedCards) == 0 {
			continue
		}
		chosen := res.SelectedCards[0]
		if v, ok := byId[chosen.Id]; ok {
			return v, seat
		}
	}
	return nil, -1
}

func playResponseCard(ctx *ResolutionContext, fromSeat int, played EffectiveView, win ResponseWindowContext) error {
	var card *Card
	switch v := played.(type) {
	case *Card:
		card = v
	case *VirtualCard:
		card = v.Underlying
	}
	if err := ctx.CardMove.Discard(ctx, []*Card{card}, "response-played"); err != nil {
		return err
	}
	return ctx.Bus.Publish(ctx.Game.CurrentPlayerSeat, Event{
		Kind: CardPlayedEvent, Seat: fromSeat, Card: card, SubType: played.EffectiveSubType(),
		Reason: "response-to:" + win.ResponseType.String(),
	})
}
