package lifecycle

import (
	"strings"
	"time"

	"barangay/internal/utils"
	"barangay/pkg/types"
)

type Actor int

const (
	ActorResident Actor = iota
	ActorAdministrator
)

func (a Actor) String() string {
	switch a {
	case ActorResident:
		return "resident"
	case ActorAdministrator:
		return "administrator"
	default:
		return "unknown"
	}
}

// ParseStatus accepts free-text status input such as " Completed ".
func ParseStatus(input string) (types.RequestStatus, error) {
	status := types.RequestStatus(strings.ToLower(strings.TrimSpace(input)))
	if !status.Valid() {
		return "", types.ErrUnknownStatus
	}
	return status, nil
}

// Transition returns a copy of current moved to the given status. Residents
// may only cancel a pending request. Administrators may set any status,
// including re-opening a cancelled request.
func Transition(current types.Request, actor Actor, to types.RequestStatus, now time.Time) (types.Request, error) {
	if !to.Valid() {
		return current, types.ErrUnknownStatus
	}

	switch actor {
	case ActorResident:
		if current.Status != types.RequestStatusPending || to != types.RequestStatusCancelled {
			return current, types.ErrResidentTransition
		}
	case ActorAdministrator:
	default:
		return current, types.ErrAdminOnly
	}

	next := copyRequest(current)
	next.Status = to
	if to == types.RequestStatusCancelled {
		next.CancelledAt = utils.TimePtr(now)
	} else {
		next.UpdatedAt = utils.TimePtr(now)
	}

	return next, nil
}

// RequiresCertificate reports whether moving to status issues a
// certificate. Re-completing a completed request issues a fresh one.
func RequiresCertificate(to types.RequestStatus) bool {
	return to == types.RequestStatusCompleted
}

func copyRequest(r types.Request) types.Request {
	out := r
	out.Documents = append([]string(nil), r.Documents...)
	if r.Purposes != nil {
		out.Purposes = make(map[string]string, len(r.Purposes))
		for k, v := range r.Purposes {
			out.Purposes[k] = v
		}
	}
	if r.BusinessInfo != nil {
		info := *r.BusinessInfo
		out.BusinessInfo = &info
	}
	return out
}
