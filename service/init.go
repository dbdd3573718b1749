/*
 * @module service/init
 * @description 服务初始化模块，负责数据库连接、缓存、通知后端与各服务的装配
 * @architecture 分层架构 - 服务层
 * @documentReference ai_docs/compliance_engine_design.md
 * @stateFlow 应用启动时执行初始化流程
 * @rules 数据库与迁移失败直接终止；缓存与消息后端缺失时降级运行
 * @dependencies gorm.io/gorm, gorm.io/driver/postgres
 * @refs service/catalog/catalog_service.go, service/suite/suite.go
 */

package service

import (
	"fmt"
	"log"
	"os"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"opendata-compliance-service/client"
	"opendata-compliance-service/service/access"
	"opendata-compliance-service/service/cache"
	"opendata-compliance-service/service/catalog"
	"opendata-compliance-service/service/database"
	"opendata-compliance-service/service/notifier"
	"opendata-compliance-service/service/suite"
	"opendata-compliance-service/service/validators"
)

var (
	DB                    *gorm.DB
	GlobalComplianceSuite *suite.ComplianceSuite
	GlobalCatalogService  *catalog.CatalogService
	GlobalScheduler       *catalog.Scheduler
	GlobalKeyService      *access.KeyService
	GlobalAssessmentCache *cache.AssessmentCache
	GlobalNotifier        *notifier.Fanout
	GlobalPortalClient    *client.PortalClient
)

func init() {
	initDatabase()
	runMigrations()
	initServices()
}

// initDatabase 初始化数据库连接
func initDatabase() {
	var dsn string

	// 优先使用DATABASE_URL环境变量
	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		dsn = databaseURL
	} else {
		// 使用分离的环境变量构建连接字符串
		host := getEnvWithDefault("DB_HOST", "localhost")
		port := getEnvWithDefault("DB_PORT", "5432")
		user := getEnvWithDefault("DB_USER", "postgres")
		password := getEnvWithDefault("DB_PASSWORD", "things2024")
		dbname := getEnvWithDefault("DB_NAME", "postgres")
		sslmode := getEnvWithDefault("DB_SSLMODE", "disable")
		schema := getEnvWithDefault("DB_SCHEMA", "public")

		dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s search_path=%s TimeZone=Europe/Belgrade",
			host, port, user, password, dbname, sslmode, schema)
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	log.Println("数据库连接成功")
}

// getEnvWithDefault 获取环境变量，如果不存在则返回默认值
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// runMigrations 运行数据库迁移
func runMigrations() {
	log.Println("开始运行数据库迁移...")

	if err := database.AutoMigrate(DB); err != nil {
		log.Fatalf("数据库迁移失败: %v", err)
	}

	log.Println("所有数据库迁移任务完成")
}

// initServices 初始化服务
func initServices() {
	GlobalComplianceSuite = suite.NewComplianceSuite(suite.Config{
		Validation: &validators.Config{
			DefaultLocale: getEnvWithDefault("HOME_LOCALE", "sr"),
		},
	})

	GlobalPortalClient = client.NewPortalClient()
	GlobalKeyService = access.NewKeyService(DB)
	GlobalAssessmentCache = initCache()
	GlobalNotifier = initNotifier()

	GlobalCatalogService = catalog.NewCatalogService(DB,
		GlobalComplianceSuite, GlobalAssessmentCache, GlobalNotifier, GlobalPortalClient)

	// 启动周期性重评调度器
	GlobalScheduler = catalog.NewScheduler(GlobalCatalogService)
	if err := GlobalScheduler.StartScheduler(); err != nil {
		log.Printf("启动重评调度器失败: %v", err)
	}

	log.Println("服务初始化完成")
}

// initCache 初始化评估结果缓存，未配置Redis时降级为直通
func initCache() *cache.AssessmentCache {
	address := os.Getenv("REDIS_ADDRESS")
	if address == "" {
		log.Println("未配置REDIS_ADDRESS，评估缓存已禁用")
		return nil
	}
	return cache.NewAssessmentCache(&cache.Config{
		Address:  address,
		Password: os.Getenv("REDIS_PASSWORD"),
	})
}

// initNotifier 按环境变量装配通知后端
func initNotifier() *notifier.Fanout {
	var backends []notifier.Notifier

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		backends = append(backends, notifier.NewKafkaNotifier(&notifier.KafkaConfig{
			Brokers: strings.Split(brokers, ","),
			Topic:   getEnvWithDefault("KAFKA_TOPIC", "opendata-assessments"),
		}))
		log.Println("已启用Kafka评估事件通知")
	}

	if brokerURL := os.Getenv("MQTT_BROKER_URL"); brokerURL != "" {
		mqttNotifier, err := notifier.NewMQTTNotifier(&notifier.MQTTConfig{
			BrokerURL: brokerURL,
			ClientID:  getEnvWithDefault("MQTT_CLIENT_ID", "opendata-compliance-service"),
			Username:  os.Getenv("MQTT_USERNAME"),
			Password:  os.Getenv("MQTT_PASSWORD"),
		})
		if err != nil {
			log.Printf("MQTT通知后端初始化失败: %v", err)
		} else {
			backends = append(backends, mqttNotifier)
			log.Println("已启用MQTT评估事件通知")
		}
	}

	return notifier.NewFanout(backends...)
}
