package services

import (
	"strings"
	"testing"

	"cashbook/internal/metrics"
	"cashbook/internal/models"
	"cashbook/internal/testutil"
)

type countingCollector struct {
	metrics.NoOpCollector
	mutations map[string]int
}

func (c *countingCollector) RecordMutation(resource, action string) {
	c.mutations[resource+"/"+action]++
}

func TestAuditLog(t *testing.T) {
	t.Run("counts_mutation", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		collector := &countingCollector{mutations: map[string]int{}}
		svc := NewAuditService(db, collector)

		svc.Log(testutil.NewUserID(), "DELETE_TRANSACTION", "transaction", "tx-1", "", nil)

		if collector.mutations["transaction/delete"] != 1 {
			t.Errorf("expected one transaction delete, got %v", collector.mutations)
		}
	})

	t.Run("records_entry_with_changes", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAuditService(db, nil)

		userID := testutil.NewUserID()
		svc.Log(userID, "CREATE_BOOK", "book", "book-1", "127.0.0.1", map[string]interface{}{"name": "Household"})

		var entries []models.AuditLog
		testutil.AssertNoError(t, db.Where("user_id = ?", userID).Find(&entries).Error)
		if len(entries) != 1 {
			t.Fatalf("expected 1 audit entry, got %d", len(entries))
		}
		if entries[0].Action != "CREATE_BOOK" || entries[0].ResourceID != "book-1" {
			t.Errorf("unexpected entry %+v", entries[0])
		}
		if !strings.Contains(entries[0].Changes, `"name":"Household"`) {
			t.Errorf("expected changes to be JSON encoded, got %s", entries[0].Changes)
		}
	})

	t.Run("unmarshalable_changes_fall_back_to_empty_object", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAuditService(db, nil)

		userID := testutil.NewUserID()
		svc.Log(userID, "UPDATE_BOOK", "book", "book-1", "", map[string]interface{}{"bad": make(chan int)})

		var entry models.AuditLog
		testutil.AssertNoError(t, db.Where("user_id = ?", userID).First(&entry).Error)
		if entry.Changes != "{}" {
			t.Errorf("expected {}, got %s", entry.Changes)
		}
	})

	t.Run("database_failure_does_not_panic", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewAuditService(db, nil)
		testutil.TeardownTestDB(t, db)

		svc.Log(testutil.NewUserID(), "DELETE_BOOK", "book", "book-1", "", nil)
	})
}
