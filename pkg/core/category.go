package core

// Category is one of the fixed priority tiers used to classify items.
// The zero value is the highest priority; Categories() returns them in
// descending priority order.
type Category int

const (
	CategoryIntegration Category = iota
	CategoryPlatform
	CategoryFollowUp
	CategoryGeneral
)

// Categories returns all categories in priority order (highest first).
func Categories() []Category {
	return []Category{CategoryIntegration, CategoryPlatform, CategoryFollowUp, CategoryGeneral}
}

func (c Category) String() string {
	switch c {
	case CategoryIntegration:
		return "integration"
	case CategoryPlatform:
		return "platform"
	case CategoryFollowUp:
		return "follow-up"
	case CategoryGeneral:
		return "general"
	}
	return "unknown"
}

// Tag is the fixed display tag rendered into task lines.
func (c Category) Tag() string {
	switch c {
	case CategoryIntegration:
		return "#integration"
	case CategoryPlatform:
		return "#platform"
	case CategoryFollowUp:
		return "#follow-up"
	case CategoryGeneral:
		return "#review"
	}
	return "#unknown"
}

// Urgency is the fixed urgency label rendered into task lines.
func (c Category) Urgency() string {
	switch c {
	case CategoryIntegration, CategoryPlatform:
		return "#urgent-important"
	case CategoryFollowUp:
		return "#important"
	case CategoryGeneral:
		return "#normal"
	}
	return "#normal"
}

// NeedsReviewGate reports whether notification-worthiness for this category
// is additionally gated on the review-need evaluator. Only the two priority
// team categories are gated; FollowUp and General render tasks regardless.
func (c Category) NeedsReviewGate() bool {
	return c == CategoryIntegration || c == CategoryPlatform
}
