package repos

import (
	"github.com/yungbote/nurture-backend/internal/data/repos/learning"
	"github.com/yungbote/nurture-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type CourseRepo = learning.CourseRepo
type CourseProgressRepo = learning.CourseProgressRepo
type CourseUnitStateRepo = learning.CourseUnitStateRepo
type CourseReadLogRepo = learning.CourseReadLogRepo
type PersonalityRepo = learning.PersonalityRepo
type UserProfileRepo = learning.UserProfileRepo

func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
	return learning.NewCourseRepo(db, baseLog)
}
func NewCourseProgressRepo(db *gorm.DB, baseLog *logger.Logger) CourseProgressRepo {
	return learning.NewCourseProgressRepo(db, baseLog)
}
func NewCourseUnitStateRepo(db *gorm.DB, baseLog *logger.Logger) CourseUnitStateRepo {
	return learning.NewCourseUnitStateRepo(db, baseLog)
}
func NewCourseReadLogRepo(db *gorm.DB, baseLog *logger.Logger) CourseReadLogRepo {
	return learning.NewCourseReadLogRepo(db, baseLog)
}
func NewPersonalityRepo(db *gorm.DB, baseLog *logger.Logger) PersonalityRepo {
	return learning.NewPersonalityRepo(db, baseLog)
}
func NewUserProfileRepo(db *gorm.DB, baseLog *logger.Logger) UserProfileRepo {
	return learning.NewUserProfileRepo(db, baseLog)
}

var IsUniqueViolation = learning.IsUniqueViolation
