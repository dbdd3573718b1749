/*
 * @module api/routes
 * @description API路由配置模块，负责初始化和配置所有HTTP路由
 * @architecture RESTful API架构
 * @documentReference ai_docs/compliance_engine_design.md
 * @stateFlow 无状态HTTP请求处理
 * @rules 遵循RESTful API设计规范，统一错误处理和响应格式
 * @dependencies github.com/go-chi/chi/v5, github.com/go-chi/cors, github.com/go-chi/render
 * @refs api/controllers/, api/middleware/
 */

package api

import (
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"

	"opendata-compliance-service/api/controllers"
	apimiddleware "opendata-compliance-service/api/middleware"
	"opendata-compliance-service/service"
)

// InitRoute 初始化所有API路由
func InitRoute(r *chi.Mux) {
	// 基础中间件
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	// CORS配置
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// 访问密钥认证，AUTH_DISABLED=true 时跳过（本地开发用）
	if os.Getenv("AUTH_DISABLED") != "true" {
		authMiddleware := apimiddleware.NewAccessKeyAuthMiddleware(service.GlobalKeyService)
		r.Use(authMiddleware.Middleware)
	}

	// 健康检查
	healthController := controllers.NewHealthController()
	r.Get("/health", healthController.Health)
	r.Get("/ready", healthController.Ready)

	// 合规评估
	r.Route("/compliance", func(r chi.Router) {
		complianceController := controllers.NewComplianceController(service.GlobalComplianceSuite)

		r.Post("/assess", complianceController.Assess)
		r.Post("/quick-check", complianceController.QuickCheck)
		r.Post("/report", complianceController.ExportReport)
		r.Post("/export", complianceController.ExportRecords)
	})

	// 数据质量分析
	r.Route("/quality", func(r chi.Router) {
		qualityController := controllers.NewQualityController()

		r.Post("/analyze", qualityController.Analyze)
	})

	// 元数据管理
	r.Route("/metadata", func(r chi.Router) {
		metadataController := controllers.NewMetadataController()

		r.Post("/import/{schema}", metadataController.ImportMetadata)
		r.Post("/export/{schema}", metadataController.ExportMetadata)
		r.Post("/enhance", metadataController.EnhanceMetadata)

		// 登记表查询
		r.Get("/schemas", metadataController.GetSchemas)
		r.Get("/institutions", metadataController.GetInstitutions)
		r.Get("/themes", metadataController.GetThemes)
		r.Get("/licenses", metadataController.GetLicenses)
	})

	// 数据集目录
	r.Route("/catalog", func(r chi.Router) {
		catalogController := controllers.NewCatalogController(service.GlobalCatalogService)

		r.Route("/datasets", func(r chi.Router) {
			// 基础CRUD操作
			r.Post("/", catalogController.CreateDataset)
			r.Get("/", catalogController.GetDatasets)
			r.Get("/{id}", catalogController.GetDataset)
			r.Put("/{id}", catalogController.UpdateDataset)
			r.Delete("/{id}", catalogController.DeleteDataset)

			// 评估触发
			r.Post("/{id}/assess", catalogController.AssessDataset)
		})

		// 门户导入
		r.Post("/import", catalogController.ImportFromPortal)
	})

	// 访问控制
	r.Route("/access", func(r chi.Router) {
		accessController := controllers.NewAccessController(service.GlobalKeyService)

		r.Route("/keys", func(r chi.Router) {
			r.Post("/", accessController.IssueKey)
			r.Get("/", accessController.GetKeys)
			r.Delete("/{id}", accessController.RevokeKey)
		})
	})
}
