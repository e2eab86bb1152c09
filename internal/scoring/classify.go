package scoring

// Classify derives the scorecard symbol for a pending selection.
//
// Checks run in the fixed order strike, ace, headpin, spare, numeric. The
// first three only apply to the first ball of a frame with no pins down yet.
// An empty selection classifies as Empty.
func Classify(pending, knockdown PinSet, ballIndex int) Ball {
	pending &^= knockdown
	if pending.IsEmpty() {
		return Empty
	}
	if ballIndex == 0 && knockdown.IsEmpty() {
		switch pending {
		case AllPins:
			return Strike
		case aceSet:
			return Ace
		case headpinSet:
			return Headpin
		}
	}
	if ballIndex > 0 && knockdown.Union(pending).Full() {
		return Spare
	}
	return Pins(pending.Value())
}
