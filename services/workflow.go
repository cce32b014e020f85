package services

import (
	"fmt"
	"time"

	"layanan-publik-api/models"
)

// Workflow status codes stored in submissions.status. A submission starts
// in PENGAJUAN_BARU, moves forward to DIPROSES, and ends in SELESAI or
// DITOLAK. The two terminal statuses can only be re-asserted, never
// changed.
const (
	StatusPengajuanBaru = "PENGAJUAN_BARU"
	StatusDiproses      = "DIPROSES"
	StatusSelesai       = "SELESAI"
	StatusDitolak       = "DITOLAK"
)

// statusRank orders statuses for the monotonicity check. Both terminal
// statuses share the highest rank.
var statusRank = map[string]int{
	StatusPengajuanBaru: 1,
	StatusDiproses:      2,
	StatusSelesai:       3,
	StatusDitolak:       3,
}

// statusLabels maps each status code to the human-readable label used in
// notification emails and exports.
var statusLabels = map[string]string{
	StatusPengajuanBaru: "Pengajuan Baru",
	StatusDiproses:      "Sedang Diproses",
	StatusSelesai:       "Selesai",
	StatusDitolak:       "Ditolak",
}

// UnknownStatusError reports a requested status outside the closed
// vocabulary. Always a client error, never retried.
type UnknownStatusError struct {
	Status string
}

func (e *UnknownStatusError) Error() string {
	return fmt.Sprintf("status %q tidak dikenal", e.Status)
}

// InvalidTransitionError reports a transition the workflow forbids:
// mutating a terminal status or moving backwards.
type InvalidTransitionError struct {
	From   string
	To     string
	Reason string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("transisi %s -> %s ditolak: %s", e.From, e.To, e.Reason)
}

// IsKnownStatus reports whether code is one of the four workflow statuses.
func IsKnownStatus(code string) bool {
	_, ok := statusRank[code]
	return ok
}

// IsTerminalStatus reports whether code is a final status.
func IsTerminalStatus(code string) bool {
	return code == StatusSelesai || code == StatusDitolak
}

// StatusLabel returns the display label for a status code. Unknown codes
// echo through unchanged; only the dispatcher ever hits that path, and it
// does so deliberately so a bad row still produces a readable email.
func StatusLabel(code string) string {
	if label, ok := statusLabels[code]; ok {
		return label
	}
	return code
}

// VerifyStatusLabels checks at startup that every status in the vocabulary
// has a display label. cmd/api fails fast on a gap instead of mailing raw
// status codes to citizens.
func VerifyStatusLabels() error {
	for code := range statusRank {
		if _, ok := statusLabels[code]; !ok {
			return fmt.Errorf("status %s has no display label", code)
		}
	}
	return nil
}

// TransitionOutcome is the result of an accepted transition. Updated is a
// copy of the input submission with the new status applied; the input is
// never mutated. NoOp marks a same-status request, which is accepted and
// still bumps updated_at and triggers notification.
type TransitionOutcome struct {
	Updated models.Submission
	NoOp    bool
}

// ApplyTransition validates requested against the submission's current
// status and returns the updated record. It performs no persistence: the
// caller writes the result through the store's compare-and-set so that
// concurrent requests against stale state cannot both win.
func ApplyTransition(sub models.Submission, requested string, now time.Time) (TransitionOutcome, error) {
	if !IsKnownStatus(requested) {
		return TransitionOutcome{}, &UnknownStatusError{Status: requested}
	}

	current := sub.Status
	if IsTerminalStatus(current) && requested != current {
		return TransitionOutcome{}, &InvalidTransitionError{
			From:   current,
			To:     requested,
			Reason: "status final tidak dapat diubah",
		}
	}
	if statusRank[requested] < statusRank[current] {
		return TransitionOutcome{}, &InvalidTransitionError{
			From:   current,
			To:     requested,
			Reason: "status tidak dapat mundur",
		}
	}

	updated := sub
	updated.Status = requested
	updated.UpdatedAt = now

	return TransitionOutcome{
		Updated: updated,
		NoOp:    requested == current,
	}, nil
}
