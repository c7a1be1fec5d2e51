package services

import (
	"github.com/spainrp/awards/internal/errors"
)

// Voting and vote-store errors. Each carries a Kind so the HTTP layer can map
// it to a status code; the bot maps each one to its own user message.
var (
	ErrAlreadyVoted         = &errors.Error{Kind: errors.ErrConflict, Message: "user has already voted"}
	ErrSessionAlreadyActive = &errors.Error{Kind: errors.ErrConflict, Message: "a voting session is already active"}
	ErrUnreachableUser      = &errors.Error{Kind: errors.ErrUnavailable, Message: "user cannot receive direct messages"}
	ErrSessionExpired       = &errors.Error{Kind: errors.ErrNotFound, Message: "voting session expired"}
	ErrIdentityTooShort     = &errors.Error{Kind: errors.ErrValidation, Message: "identity must be at least 3 characters"}
	ErrDuplicateVote        = &errors.Error{Kind: errors.ErrConflict, Message: "vote already recorded"}
	ErrNoPriorVote          = &errors.Error{Kind: errors.ErrNotFound, Message: "no prior vote for user"}
	ErrLookupUnavailable    = &errors.Error{Kind: errors.ErrUnavailable, Message: "avatar lookup unavailable"}
	ErrPersistenceFailure   = &errors.Error{Kind: errors.ErrInternal, Message: "vote could not be stored"}
)

// MinIdentityLength is the minimum number of runes in a submitted identity.
const MinIdentityLength = 3
