package database

import (
	"fmt"
	"log"

	"tutorpress_backend/internal/config"
	"tutorpress_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Models 是需要迁移的全部表
var Models = []interface{}{
	&model.Quiz{},
	&model.QuizQuestion{},
	&model.QuizQuestionAnswer{},
	&model.Attachment{},
}

func DSN(cfg *config.DatabaseConfig) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)
}

// InitDB 连接数据库。migrate 为 true 时执行 AutoMigrate。
func InitDB(cfg *config.DatabaseConfig, migrate bool) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(DSN(cfg)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if !migrate {
		return db, nil
	}

	if err := db.AutoMigrate(Models...); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")
	return db, nil
}
