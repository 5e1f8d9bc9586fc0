// internal/service/notification/templates.go
package notification

import (
	"fmt"

	"projexa-service/internal/domain/notification"
)

// rendered holds the per-recipient content of one project event.
type rendered struct {
	Subject string
	Title   string
	Message string
	Body    string
}

// renderEvent builds the subject, in-app text and mail body for a project
// event. Unknown event types fall back to a generic project-activity mail.
func renderEvent(event *notification.ProjectEvent) rendered {
	switch event.Type {
	case notification.EventUserAdded:
		return rendered{
			Subject: fmt.Sprintf("New member on %s", event.ProjectName),
			Title:   "New project member",
			Message: fmt.Sprintf("%s added %s to the project %s.", event.ActorName, event.ConcernedName, event.ProjectName),
			Body: fmt.Sprintf(
				"<p>Hello,</p><p><strong>%s</strong> added <strong>%s</strong> to the project <strong>%s</strong>.</p>",
				event.ActorName, event.ConcernedName, event.ProjectName,
			),
		}

	case notification.EventUserAddedToProject:
		return rendered{
			Subject: fmt.Sprintf("You were added to %s", event.ProjectName),
			Title:   "Added to project",
			Message: fmt.Sprintf("%s added you to the project %s.", event.ActorName, event.ProjectName),
			Body: fmt.Sprintf(
				"<p>Hello,</p><p><strong>%s</strong> added you to the project <strong>%s</strong>. Sign in to see the tasks waiting for you.</p>",
				event.ActorName, event.ProjectName,
			),
		}

	case notification.EventTaskCreated:
		return rendered{
			Subject: fmt.Sprintf("New task on %s", event.ProjectName),
			Title:   "New task",
			Message: fmt.Sprintf("%s created the task \"%s\" on %s.", event.ActorName, event.TaskTitle, event.ProjectName),
			Body: fmt.Sprintf(
				"<p>Hello,</p><p><strong>%s</strong> created the task <strong>%s</strong> on the project <strong>%s</strong>.</p>",
				event.ActorName, event.TaskTitle, event.ProjectName,
			),
		}

	case notification.EventTaskUpdated:
		return rendered{
			Subject: fmt.Sprintf("Task updated on %s", event.ProjectName),
			Title:   "Task updated",
			Message: fmt.Sprintf("%s updated the task \"%s\" on %s.", event.ActorName, event.TaskTitle, event.ProjectName),
			Body: fmt.Sprintf(
				"<p>Hello,</p><p><strong>%s</strong> updated the task <strong>%s</strong> on the project <strong>%s</strong>.</p>",
				event.ActorName, event.TaskTitle, event.ProjectName,
			),
		}

	default:
		return rendered{
			Subject: fmt.Sprintf("Activity on %s", event.ProjectName),
			Title:   "Project activity",
			Message: fmt.Sprintf("%s made a change on the project %s.", event.ActorName, event.ProjectName),
			Body: fmt.Sprintf(
				"<p>Hello,</p><p>There is new activity on the project <strong>%s</strong>.</p>",
				event.ProjectName,
			),
		}
	}
}

// eventMetadata is stored on the in-app notification so clients can deep-link.
func eventMetadata(event *notification.ProjectEvent) map[string]interface{} {
	meta := map[string]interface{}{
		"event":      string(event.Type),
		"project_id": event.ProjectID,
		"actor_id":   event.ActorID,
	}
	if event.TaskID != nil {
		meta["task_id"] = *event.TaskID
	}
	if event.ConcernedID != nil {
		meta["concerned_id"] = *event.ConcernedID
	}
	return meta
}
