package database

import "github.com/NirojT/AspBlogBacken/internal/models"

// PersistentModels returns the schema-managed GORM models in dependency order.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Blog{},
		&models.Comment{},
		&models.Reaction{},
		&models.Notification{},
	}
}
