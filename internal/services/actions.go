package services

import "strings"

// Component custom ids shared by prompts and the interaction decoder.
const (
	CustomIDStartVoting = "start_voting"
	CustomIDConfirm     = "confirm_vote"
	CustomIDRestart     = "restart_vote"
	customIDVotePrefix  = "vote:"
)

// VoteCustomID encodes a candidate button. The candidate value may itself contain ':'.
func VoteCustomID(categoryID, candidate string) string {
	return customIDVotePrefix + categoryID + ":" + candidate
}

// ParseVoteCustomID is the inverse of VoteCustomID.
func ParseVoteCustomID(id string) (categoryID, candidate string, ok bool) {
	rest, found := strings.CutPrefix(id, customIDVotePrefix)
	if !found {
		return "", "", false
	}
	categoryID, candidate, ok = strings.Cut(rest, ":")
	if !ok || categoryID == "" {
		return "", "", false
	}
	return categoryID, candidate, true
}

// Action is a decoded user event for the voting wizard. The set of
// implementations is closed.
type Action interface {
	isAction()
}

type (
	StartVoting     struct{}
	SelectCandidate struct{ Category, Candidate string }
	Confirm         struct{}
	Restart         struct{}
	SubmitIdentity  struct{ Text string }
)

func (StartVoting) isAction()     {}
func (SelectCandidate) isAction() {}
func (Confirm) isAction()         {}
func (Restart) isAction()         {}
func (SubmitIdentity) isAction()  {}
