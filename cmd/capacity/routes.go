package main

import (
	"log/slog"

	generateReport "capacity-backend/http-server/generate-report/generate-excel"
	getMachines "capacity-backend/http-server/machines/get"
	matchMachines "capacity-backend/http-server/machines/match"
	getRules "capacity-backend/http-server/rules/get"
	getSchedule "capacity-backend/http-server/schedule/get"
	upSchedule "capacity-backend/http-server/schedule/update"
	"capacity-backend/internal/config"
	"capacity-backend/internal/middleware/auth"
	generate_excel "capacity-backend/internal/service/generate-excel"
	"capacity-backend/internal/service/matching"
	"capacity-backend/internal/service/schedule"
	"capacity-backend/internal/storage/mysql"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

func routes(cfg config.Config, log *slog.Logger, storage *mysql.Storage,
	matchService *matching.Service, scheduleService *schedule.Service,
	reportService *generate_excel.CapacityReportService) *chi.Mux {

	router := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:8081", "http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	router.Use(corsHandler.Handler)
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	// Machine registry and matching
	router.Get("/api/machines", getMachines.GetMachines(log, storage))
	router.Post("/api/machines/match", matchMachines.MatchMachines(log, matchService))
	router.Post("/api/machines/match/best", matchMachines.BestMachine(log, matchService))

	// Rules are read-only here; editing lives in the hosted admin backend
	router.Get("/api/rules", getRules.GetRules(log, storage))

	// Process type parameter schema for the job forms
	router.Get("/api/process-types/{processType}/fields", getMachines.GetProcessTypeFields(log, storage))

	// Period views and interactive schedule edits
	router.Get("/api/schedule/{jobID}/periods", getSchedule.GetJobPeriods(log, scheduleService))
	router.Put("/api/schedule/{jobID}/periods", upSchedule.EditJobPeriod(log, scheduleService))
	router.Post("/api/schedule/{jobID}/reset", upSchedule.ResetJobSchedule(log, scheduleService))

	// Capacity report export
	router.Get("/api/report/excel", generateReport.GenerateReportExcel(log, reportService))

	adminRouter := chi.NewRouter()
	adminRouter.Use(auth.BasicAuth(cfg.AdminLogin, cfg.AdminPass))

	adminRouter.Get("/machines", getMachines.GetMachines(log, storage))
	adminRouter.Get("/rules", getRules.GetRules(log, storage))

	router.Mount("/api/admin", adminRouter)

	return router
}
