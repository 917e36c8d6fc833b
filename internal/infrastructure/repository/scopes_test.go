package repository

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/primekad/laundry-management-system-sub002/internal/domain/entity"
	domainRepo "github.com/primekad/laundry-management-system-sub002/internal/domain/repository"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// dryRun builds statements without a server; the pgx pool opens lazily
func dryRun(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{DSN: "host=localhost user=dry dbname=dry sslmode=disable"}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	if err != nil {
		t.Fatalf("open dry run db: %v", err)
	}
	return db
}

func TestDateRange_EndDayInclusive(t *testing.T) {
	db := dryRun(t)
	from := time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

	var orders []entity.Order
	stmt := db.Model(&entity.Order{}).
		Scopes(DateRange("orders.created_at", &from, &to)).
		Find(&orders).Statement

	sql := stmt.SQL.String()
	if !strings.Contains(sql, "orders.created_at >= $1") || !strings.Contains(sql, "orders.created_at < $2") {
		t.Fatalf("unexpected sql: %s", sql)
	}
	if len(stmt.Vars) != 2 {
		t.Fatalf("expected 2 vars, got %v", stmt.Vars)
	}
	if got := stmt.Vars[0].(time.Time); !got.Equal(from) {
		t.Errorf("lower bound = %v, want %v", got, from)
	}
	// an order at 10:00 on the end day must fall inside
	if got := stmt.Vars[1].(time.Time); !got.Equal(to.AddDate(0, 0, 1)) {
		t.Errorf("upper bound = %v, want next midnight", got)
	}
}

func TestDateRange_TruncatesTimeOfDay(t *testing.T) {
	db := dryRun(t)
	to := time.Date(2026, 10, 19, 15, 30, 0, 0, time.UTC)

	var payments []entity.Payment
	stmt := db.Model(&entity.Payment{}).
		Scopes(DateRange("payments.paid_at", nil, &to)).
		Find(&payments).Statement

	if len(stmt.Vars) != 1 {
		t.Fatalf("expected 1 var, got %v", stmt.Vars)
	}
	want := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)
	if got := stmt.Vars[0].(time.Time); !got.Equal(want) {
		t.Errorf("upper bound = %v, want %v", got, want)
	}
}

func TestBranchScope(t *testing.T) {
	db := dryRun(t)
	branchID := uuid.New()

	tests := []struct {
		name string
		ctx  context.Context
		want string
	}{
		{"branch", domainRepo.WithBranch(context.Background(), branchID), "orders.branch_id = $1"},
		{"no branch", context.Background(), "1 = 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var orders []entity.Order
			stmt := db.WithContext(tt.ctx).Model(&entity.Order{}).
				Scopes(BranchScope(tt.ctx, "orders")).
				Find(&orders).Statement
			if sql := stmt.SQL.String(); !strings.Contains(sql, tt.want) {
				t.Errorf("expected %q in %s", tt.want, sql)
			}
		})
	}
}
