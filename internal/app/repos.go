package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/nurture-backend/internal/data/repos"
	"github.com/yungbote/nurture-backend/internal/platform/logger"
)

type Repos struct {
	Course          repos.CourseRepo
	CourseProgress  repos.CourseProgressRepo
	CourseUnitState repos.CourseUnitStateRepo
	CourseReadLog   repos.CourseReadLogRepo
	Personality     repos.PersonalityRepo
	UserProfile     repos.UserProfileRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Course:          repos.NewCourseRepo(db, log),
		CourseProgress:  repos.NewCourseProgressRepo(db, log),
		CourseUnitState: repos.NewCourseUnitStateRepo(db, log),
		CourseReadLog:   repos.NewCourseReadLogRepo(db, log),
		Personality:     repos.NewPersonalityRepo(db, log),
		UserProfile:     repos.NewUserProfileRepo(db, log),
	}
}
