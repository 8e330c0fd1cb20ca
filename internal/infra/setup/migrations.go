package setup

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"drag-drop-game/internal/domain"
)

// MigrateDB 使用 AutoMigrate 创建或更新所有表。
// 可变长度的索引列都限制为 varchar(191)，以兼容 utf8mb4 下的 MySQL 索引长度。
func MigrateDB(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("cannot migrate database with nil DB connection")
	}

	models := []interface{}{
		&domain.User{},
		&domain.Room{},
		&domain.Player{},
		&domain.Level{},
	}
	for _, m := range models {
		if err := db.AutoMigrate(m); err != nil {
			logrus.Errorf("Failed to auto-migrate %T: %v", m, err)
			return fmt.Errorf("failed to migrate %T: %w", m, err)
		}
	}

	// 旧数据中 status 可能为空，统一补成 WAITING
	if err := db.Model(&domain.Room{}).
		Where("status IS NULL OR status = ''").
		Update("status", domain.RoomStatusWaiting).Error; err != nil {
		logrus.Warnf("Could not backfill empty room status: %v", err)
	}

	logrus.Info("Database migration completed successfully")
	return nil
}
