package seeds

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/smartedu/smartedu/internal/models"
)

var actions = []string{"add", "read", "edit", "delete"}

// GenerateModelPermissions creates one "<model>: <action>" permission per
// model/action pair. Re-running is safe: existing names are left alone.
func GenerateModelPermissions(db *gorm.DB, modelNames []string) error {
	for _, model := range modelNames {
		for _, action := range actions {
			perm := models.Permission{
				Name:        fmt.Sprintf("%s: %s", model, action),
				Description: fmt.Sprintf("Can %s %s", action, model),
			}
			if err := db.Where("name = ?", perm.Name).FirstOrCreate(&perm).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
