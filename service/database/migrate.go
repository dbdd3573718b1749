/*
 * @module service/database/migrate
 * @description 数据库迁移模块，负责创建和更新数据库表结构
 * @architecture 数据访问层 - 迁移管理
 * @documentReference ai_docs/compliance_engine_design.md
 * @stateFlow 应用启动时执行数据库迁移
 * @rules 确保数据库结构与模型定义保持一致
 * @dependencies opendata-compliance-service/service/models, gorm.io/gorm
 * @refs service/models/catalog.go
 */

package database

import (
	"log"

	"gorm.io/gorm"

	"opendata-compliance-service/service/models"
)

// AutoMigrate 自动迁移数据库表结构
func AutoMigrate(db *gorm.DB) error {
	log.Println("开始数据库迁移...")

	// 数据集目录相关表
	err := db.AutoMigrate(
		&models.DatasetEntry{},
	)
	if err != nil {
		return err
	}

	// 访问控制相关表
	err = db.AutoMigrate(
		&models.AccessKey{},
	)
	if err != nil {
		return err
	}

	log.Println("数据库迁移完成")
	return nil
}
