package project

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanChangeStatusTo(t *testing.T) {
	allowed := make(map[Transition]bool, len(Transitions))
	for _, tr := range Transitions {
		allowed[tr] = true
	}

	// Every (src, dst) pair must agree with the declared graph.
	for _, src := range AllStatuses {
		for _, dst := range AllStatuses {
			want := allowed[Transition{Src: src, Dst: dst}]
			got := CanChangeStatusTo(src, dst)
			assert.Equal(t, want, got, "%s -> %s", src, dst)
		}
	}
}

func TestCanChangeStatusTo_UnknownStatuses(t *testing.T) {
	assert.False(t, CanChangeStatusTo("archived", StatusEnCours))
	assert.False(t, CanChangeStatusTo(StatusEnCours, "archived"))
	assert.False(t, CanChangeStatusTo("", ""))
}

func TestCanChangeStatusTo_NoSelfLoops(t *testing.T) {
	for _, s := range AllStatuses {
		assert.False(t, CanChangeStatusTo(s, s), "self loop on %s", s)
	}
}

func TestCanChangeStatusTo_ReopenAndResume(t *testing.T) {
	// A completed project may be reopened.
	assert.True(t, CanChangeStatusTo(StatusTermine, StatusEnCours))
	assert.False(t, CanChangeStatusTo(StatusTermine, StatusDemarrage))

	// A suspended project resumes at any in-flight stage but never jumps
	// straight to completion.
	assert.True(t, CanChangeStatusTo(StatusSuspendu, StatusDemarrage))
	assert.True(t, CanChangeStatusTo(StatusSuspendu, StatusEnCours))
	assert.True(t, CanChangeStatusTo(StatusSuspendu, StatusAvance))
	assert.False(t, CanChangeStatusTo(StatusSuspendu, StatusTermine))
}

func TestIsValidStatus(t *testing.T) {
	for _, s := range AllStatuses {
		t.Run(fmt.Sprintf("valid_%s", s), func(t *testing.T) {
			assert.True(t, IsValidStatus(s))
		})
	}
	assert.False(t, IsValidStatus("nouveau "))
	assert.False(t, IsValidStatus("NOUVEAU"))
	assert.False(t, IsValidStatus(""))
}
