// Package repos aggregates the per-aggregate repositories behind one import.
package repos

import (
	"gorm.io/gorm"

	"github.com/novahq/taskhub-backend/internal/data/repos/project"
	"github.com/novahq/taskhub-backend/internal/data/repos/task"
	"github.com/novahq/taskhub-backend/internal/data/repos/team"
	"github.com/novahq/taskhub-backend/internal/data/repos/user"
	"github.com/novahq/taskhub-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo
type TeamRepo = team.TeamRepo
type ProjectRepo = project.ProjectRepo
type TaskRepo = task.TaskRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo { return user.NewUserRepo(db, baseLog) }
func NewTeamRepo(db *gorm.DB, baseLog *logger.Logger) TeamRepo { return team.NewTeamRepo(db, baseLog) }
func NewProjectRepo(db *gorm.DB, baseLog *logger.Logger) ProjectRepo {
	return project.NewProjectRepo(db, baseLog)
}
func NewTaskRepo(db *gorm.DB, baseLog *logger.Logger) TaskRepo { return task.NewTaskRepo(db, baseLog) }
