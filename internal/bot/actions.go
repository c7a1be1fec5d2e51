package bot

import (
	"github.com/spainrp/awards/internal/services"
)

// ParseAction decodes a component custom id. Unknown ids report false.
func ParseAction(customID string) (services.Action, bool) {
	switch customID {
	case services.CustomIDStartVoting:
		return services.StartVoting{}, true
	case services.CustomIDConfirm:
		return services.Confirm{}, true
	case services.CustomIDRestart:
		return services.Restart{}, true
	}
	if cat, cand, ok := services.ParseVoteCustomID(customID); ok {
		return services.SelectCandidate{Category: cat, Candidate: cand}, true
	}
	return nil, false
}
