// internal/domain/project/status.go
package project

import (
	"context"

	"github.com/looplab/fsm"
)

// Status is the project lifecycle status. Values are kept in French to match
// the historical data already stored in production.
type Status string

const (
	StatusNouveau   Status = "nouveau"
	StatusDemarrage Status = "demarrage"
	StatusEnCours   Status = "en_cours"
	StatusAvance    Status = "avance"
	StatusTermine   Status = "termine"
	StatusSuspendu  Status = "suspendu"
)

// AllStatuses lists every known project status.
var AllStatuses = []Status{
	StatusNouveau, StatusDemarrage, StatusEnCours,
	StatusAvance, StatusTermine, StatusSuspendu,
}

// Transition is one allowed edge of the project status graph.
type Transition struct {
	Src Status
	Dst Status
}

// Transitions is the full project status graph. A completed project may be
// reopened (termine -> en_cours); a suspended project resumes at any of the
// in-flight stages.
var Transitions = []Transition{
	{StatusNouveau, StatusDemarrage},
	{StatusNouveau, StatusSuspendu},
	{StatusDemarrage, StatusEnCours},
	{StatusDemarrage, StatusSuspendu},
	{StatusEnCours, StatusAvance},
	{StatusEnCours, StatusSuspendu},
	{StatusAvance, StatusTermine},
	{StatusAvance, StatusSuspendu},
	{StatusTermine, StatusEnCours},
	{StatusSuspendu, StatusDemarrage},
	{StatusSuspendu, StatusEnCours},
	{StatusSuspendu, StatusAvance},
}

// events converts Transitions into looplab/fsm EventDesc format. Each event
// is named after its destination status, with every status that may reach it
// as a source.
var events = buildEvents()

func buildEvents() []fsm.EventDesc {
	grouped := make(map[Status][]string)
	order := make([]Status, 0)

	for _, t := range Transitions {
		if _, exists := grouped[t.Dst]; !exists {
			order = append(order, t.Dst)
		}
		grouped[t.Dst] = append(grouped[t.Dst], string(t.Src))
	}

	out := make([]fsm.EventDesc, 0, len(order))
	for _, dst := range order {
		out = append(out, fsm.EventDesc{
			Name: string(dst),
			Src:  grouped[dst],
			Dst:  string(dst),
		})
	}
	return out
}

// CanChangeStatusTo reports whether the project status graph allows moving
// from current to target. It is total over all status pairs: an unknown
// current status has no outgoing moves, an unknown target is never
// reachable. looplab/fsm is stateful, so a short-lived machine is built per
// call, initialized with the current status.
func CanChangeStatusTo(current, target Status) bool {
	machine := fsm.NewFSM(string(current), events, nil)
	return machine.Event(context.Background(), string(target)) == nil
}

// IsValidStatus reports whether s is one of the known project statuses.
func IsValidStatus(s Status) bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}
