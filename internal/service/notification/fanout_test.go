package notification

import (
	"testing"

	"projexa-service/internal/domain/notification"
	"projexa-service/internal/domain/project"

	"github.com/stretchr/testify/assert"
)

func TestIsRecipient(t *testing.T) {
	concerned := int64(3)
	event := &notification.ProjectEvent{
		Type:        notification.EventUserAdded,
		ProjectID:   1,
		ActorID:     2,
		ConcernedID: &concerned,
	}

	tests := []struct {
		name   string
		member project.Member
		want   bool
	}{
		{"regular member", project.Member{UserID: 5}, true},
		{"actor is skipped", project.Member{UserID: 2}, false},
		{"concerned user is skipped", project.Member{UserID: 3}, false},
		{"muted member is skipped", project.Member{UserID: 5, IsMuted: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isRecipient(tt.member, event))
		})
	}
}

func TestIsRecipient_NoConcernedUser(t *testing.T) {
	event := &notification.ProjectEvent{
		Type:      notification.EventTaskCreated,
		ProjectID: 1,
		ActorID:   2,
	}
	assert.True(t, isRecipient(project.Member{UserID: 3}, event))
	assert.False(t, isRecipient(project.Member{UserID: 2}, event))
}

func TestRenderEvent(t *testing.T) {
	concerned := int64(3)
	taskID := int64(9)

	tests := []struct {
		name        string
		event       notification.ProjectEvent
		wantSubject string
		wantMessage string
	}{
		{
			name: "user added, team view",
			event: notification.ProjectEvent{
				Type: notification.EventUserAdded, ProjectName: "Apollo",
				ActorName: "Awa", ConcernedName: "Koffi", ConcernedID: &concerned,
			},
			wantSubject: "New member on Apollo",
			wantMessage: "Awa added Koffi to the project Apollo.",
		},
		{
			name: "user added, concerned view",
			event: notification.ProjectEvent{
				Type: notification.EventUserAddedToProject, ProjectName: "Apollo",
				ActorName: "Awa", ConcernedID: &concerned,
			},
			wantSubject: "You were added to Apollo",
			wantMessage: "Awa added you to the project Apollo.",
		},
		{
			name: "task created",
			event: notification.ProjectEvent{
				Type: notification.EventTaskCreated, ProjectName: "Apollo",
				ActorName: "Awa", TaskTitle: "Design review", TaskID: &taskID,
			},
			wantSubject: "New task on Apollo",
			wantMessage: `Awa created the task "Design review" on Apollo.`,
		},
		{
			name: "task updated",
			event: notification.ProjectEvent{
				Type: notification.EventTaskUpdated, ProjectName: "Apollo",
				ActorName: "Awa", TaskTitle: "Design review", TaskID: &taskID,
			},
			wantSubject: "Task updated on Apollo",
			wantMessage: `Awa updated the task "Design review" on Apollo.`,
		},
		{
			name: "unknown event falls back",
			event: notification.ProjectEvent{
				Type: "something_new", ProjectName: "Apollo", ActorName: "Awa",
			},
			wantSubject: "Activity on Apollo",
			wantMessage: "Awa made a change on the project Apollo.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := renderEvent(&tt.event)
			assert.Equal(t, tt.wantSubject, got.Subject)
			assert.Equal(t, tt.wantMessage, got.Message)
			assert.NotEmpty(t, got.Title)
			assert.NotEmpty(t, got.Body)
		})
	}
}

func TestEventMetadata(t *testing.T) {
	concerned := int64(3)
	taskID := int64(9)

	meta := eventMetadata(&notification.ProjectEvent{
		Type:        notification.EventTaskCreated,
		ProjectID:   1,
		ActorID:     2,
		ConcernedID: &concerned,
		TaskID:      &taskID,
	})
	assert.Equal(t, "task_created", meta["event"])
	assert.Equal(t, int64(1), meta["project_id"])
	assert.Equal(t, int64(2), meta["actor_id"])
	assert.Equal(t, int64(9), meta["task_id"])
	assert.Equal(t, int64(3), meta["concerned_id"])

	meta = eventMetadata(&notification.ProjectEvent{Type: notification.EventUserAdded, ProjectID: 1, ActorID: 2})
	assert.NotContains(t, meta, "task_id")
	assert.NotContains(t, meta, "concerned_id")
}
