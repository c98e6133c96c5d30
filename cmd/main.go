package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/mux"

	"github.com/JamesCortejo/Tough-Athletics-Gym-sub000/configs"
	"github.com/JamesCortejo/Tough-Athletics-Gym-sub000/internal/daemon"
	"github.com/JamesCortejo/Tough-Athletics-Gym-sub000/internal/db"
	"github.com/JamesCortejo/Tough-Athletics-Gym-sub000/internal/handlers"
	"github.com/JamesCortejo/Tough-Athletics-Gym-sub000/internal/middleware"
	"github.com/JamesCortejo/Tough-Athletics-Gym-sub000/internal/utils"
)

func main() {
	cfg := configs.LoadConfig()

	client, err := db.Connect(cfg.MongoURI)
	if err != nil {
		log.Fatalf("Mongo connection failed: %v", err)
	}
	utils.InitJwtSecret(cfg.JWTSecret)

	r := mux.NewRouter()
	r.Use(middleware.JSONMiddleware)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "OK")
	})

	authHandler := &handlers.AuthHandler{
		ConfigCreds: struct {
			AdminId       string
			AdminName     string
			AdminPassword string
		}{AdminId: cfg.AdminId, AdminName: cfg.AdminName, AdminPassword: cfg.AdminPassword},
	}
	r.HandleFunc("/login", authHandler.Login).Methods("POST")

	auditCol := db.GetCollection(client, cfg.DBName, "audit_logs")
	auditLogger := utils.Logger{Collection: auditCol}

	notificationCol := db.GetCollection(client, cfg.DBName, "notifications")
	notifier := &utils.Notifier{Collection: notificationCol}

	memberCol := db.GetCollection(client, cfg.DBName, "members")
	membershipCol := db.GetCollection(client, cfg.DBName, "memberships")
	checkinCol := db.GetCollection(client, cfg.DBName, "checkins")

	authed := r.PathPrefix("/").Subrouter()
	authed.Use(middleware.JWTAuthMiddleware)

	memberHandler := handlers.NewMemberHandler(memberCol, notificationCol, auditLogger)

	authed.HandleFunc("/members", memberHandler.RegisterMember).Methods("POST")
	authed.HandleFunc("/members/{id}", memberHandler.UpdateMember).Methods("PUT")
	authed.HandleFunc("/members/{id}/deactivate", memberHandler.DeactivateMember).Methods("PATCH")
	authed.HandleFunc("/members/{id}/notifications", memberHandler.ListNotifications).Methods("GET")

	membershipHandler := &handlers.MembershipHandler{
		MembershipCol: membershipCol,
		MemberCol:     memberCol,
		AuditLogger:   auditLogger,
		Notifier:      notifier,
	}

	authed.HandleFunc("/memberships/apply", membershipHandler.Apply).Methods("POST")
	authed.HandleFunc("/memberships/sweep", membershipHandler.Sweep).Methods("POST")
	authed.HandleFunc("/memberships/member/{memberId}", membershipHandler.GetMemberHistory).Methods("GET")
	authed.HandleFunc("/memberships/{id}/approve", membershipHandler.Approve).Methods("POST")
	authed.HandleFunc("/memberships/{id}/decline", membershipHandler.Decline).Methods("POST")
	authed.HandleFunc("/memberships/{id}/extend", membershipHandler.Extend).Methods("POST")
	authed.HandleFunc("/memberships/{id}/change-plan", membershipHandler.ChangePlan).Methods("POST")
	authed.HandleFunc("/memberships/{id}/withdraw", membershipHandler.Withdraw).Methods("POST")

	checkinHandler := &handlers.CheckinHandler{
		MembershipCol: membershipCol,
		CheckinCol:    checkinCol,
		AuditLogger:   auditLogger,
	}

	authed.HandleFunc("/checkin/resolve", checkinHandler.Resolve).Methods("POST")
	authed.HandleFunc("/checkin/record", checkinHandler.Record).Methods("POST")

	statsHandler := &handlers.StatsHandler{
		MemberCol:     memberCol,
		MembershipCol: membershipCol,
		CheckinCol:    checkinCol,
	}

	authed.HandleFunc("/memberships/{id}/stats", statsHandler.GetAttendanceStats).Methods("GET")
	authed.HandleFunc("/admin/metrics", statsHandler.GetMetrics).Methods("GET")

	lockHandler := &handlers.LockHandler{
		Locks: utils.NewEditLockManager(time.Duration(cfg.EditLockTTLMinutes) * time.Minute),
	}

	authed.HandleFunc("/admin/members/{id}/lock", lockHandler.Acquire).Methods("POST")
	authed.HandleFunc("/admin/members/{id}/lock", lockHandler.Release).Methods("DELETE")

	sweeper := daemon.ExpirySweeper{
		MembershipCol: membershipCol,
		Interval:      time.Duration(cfg.SweepIntervalMinutes) * time.Minute,
	}
	sweeper.Start()

	var server = http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Println("Server starting on port", cfg.Port)
		log.Fatal(server.ListenAndServe())
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	log.Println("Shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Graceful shutdown failed: %v", err)
	}
	log.Println("Server shut down.")
}
