package config

import (
	"strings"
	"testing"
	"time"
)

func TestDSNPerDriver(t *testing.T) {
	db := DatabaseConfig{
		Host: "db", Port: "5432", Name: "barberpos", User: "u", Password: "p",
		SSLMode: "disable", Timezone: "America/Bogota", SQLitePath: "/tmp/x.db",
	}

	db.Driver = "postgres"
	if dsn := db.DSN(); !strings.Contains(dsn, "dbname=barberpos") || !strings.Contains(dsn, "TimeZone=America/Bogota") {
		t.Fatalf("postgres dsn %q", dsn)
	}

	db.Driver = "mysql"
	db.Port = "3306"
	if dsn := db.DSN(); dsn != "u:p@tcp(db:3306)/barberpos?charset=utf8mb4&parseTime=True&loc=Local" {
		t.Fatalf("mysql dsn %q", dsn)
	}

	db.Driver = "sqlite"
	if dsn := db.DSN(); dsn != "/tmp/x.db" {
		t.Fatalf("sqlite dsn %q", dsn)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BUSINESS_ADMIN_SHARE", "not-a-number")
	cfg := Load()

	if cfg.Business.AdminShare.String() != "0.5" {
		t.Fatalf("admin share fallback = %s", cfg.Business.AdminShare)
	}
	if cfg.Business.Name == "" || cfg.Business.InvoicePrefix != "FAC" {
		t.Fatalf("business defaults not applied: %+v", cfg.Business)
	}
	if cfg.Storage.ReportTimeout != 30*time.Second {
		t.Fatalf("report timeout = %v", cfg.Storage.ReportTimeout)
	}
}

func TestLocationFallsBackToUTC(t *testing.T) {
	b := BusinessConfig{Timezone: "Mars/Olympus"}
	if b.Location() != time.UTC {
		t.Fatalf("expected UTC fallback")
	}
	b.Timezone = "America/Bogota"
	if b.Location().String() != "America/Bogota" {
		t.Fatalf("got %s", b.Location())
	}
}
