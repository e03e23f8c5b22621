package service

import (
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"OnTrack/internal/model"
	pkgerrors "OnTrack/pkg/errors"
)

// 定格与守卫落库绕开 postgres，用纯 Go 的 sqlite 驱动验证 SQL 语义。
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1) // 内存库绑定单连接，避免每个连接各开一个库

	if err := db.AutoMigrate(&model.DayRecord{}, &model.ChecklistTask{}, &model.CustomTaskTemplate{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func mustLoadDay(t *testing.T, db *gorm.DB, date time.Time) model.DayRecord {
	t.Helper()
	var rec model.DayRecord
	if err := db.Where("day_date = ?", date).First(&rec).Error; err != nil {
		t.Fatalf("load day record: %v", err)
	}
	return rec
}

func TestFinalizeDayOneWay(t *testing.T) {
	db := newTestDB(t)
	date := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)

	if err := db.Create(&model.DayRecord{DayDate: date, ScoreProvisional: 84}).Error; err != nil {
		t.Fatalf("create day record: %v", err)
	}

	score, ok, err := finalizeDay(db, date)
	if err != nil {
		t.Fatalf("finalizeDay: %v", err)
	}
	if !ok {
		t.Fatal("first finalize should transition")
	}
	if score != 84 {
		t.Fatalf("score = %d, want 84 (current provisional)", score)
	}

	rec := mustLoadDay(t, db, date)
	if !rec.IsFinalized || rec.ScoreFinal == nil || *rec.ScoreFinal != 84 {
		t.Fatalf("record after finalize: %+v", rec)
	}

	// 重复定格是无操作，最终分不变
	if _, ok, err := finalizeDay(db, date); err != nil || ok {
		t.Fatalf("re-finalize: ok=%v err=%v, want no-op", ok, err)
	}
	rec = mustLoadDay(t, db, date)
	if *rec.ScoreFinal != 84 {
		t.Fatalf("ScoreFinal = %d, want 84 (unchanged)", *rec.ScoreFinal)
	}
}

func TestFinalizeDayUsesLatestProvisional(t *testing.T) {
	db := newTestDB(t)
	date := time.Date(2026, 2, 11, 0, 0, 0, 0, time.UTC)

	rec := &model.DayRecord{DayDate: date, ScoreProvisional: 40}
	if err := db.Create(rec).Error; err != nil {
		t.Fatalf("create day record: %v", err)
	}

	// 查出 stale 列表之后、定格之前又有写入：定格读行内当前值而不是内存快照
	rec.ScoreProvisional = 55
	if err := saveGuarded(db, rec); err != nil {
		t.Fatalf("saveGuarded: %v", err)
	}

	score, ok, err := finalizeDay(db, date)
	if err != nil || !ok {
		t.Fatalf("finalizeDay: ok=%v err=%v", ok, err)
	}
	if score != 55 {
		t.Fatalf("score = %d, want 55 (latest provisional)", score)
	}
}

func TestSaveGuardedRejectsFinalizedRecord(t *testing.T) {
	db := newTestDB(t)
	date := time.Date(2026, 2, 12, 0, 0, 0, 0, time.UTC)

	rec := &model.DayRecord{DayDate: date, ScoreProvisional: 70}
	if err := db.Create(rec).Error; err != nil {
		t.Fatalf("create day record: %v", err)
	}

	// worker 在另一个进程里抢先定格
	if _, ok, err := finalizeDay(db, date); err != nil || !ok {
		t.Fatalf("finalizeDay: ok=%v err=%v", ok, err)
	}

	// 基于定格前内存快照的整行保存必须被拒绝
	rec.ScoreProvisional = 95
	if err := saveGuarded(db, rec); !errors.Is(err, pkgerrors.DayFinalized) {
		t.Fatalf("saveGuarded after finalize: err = %v, want DayFinalized", err)
	}

	got := mustLoadDay(t, db, date)
	if !got.IsFinalized {
		t.Fatal("finalized record must stay finalized")
	}
	if got.ScoreFinal == nil || *got.ScoreFinal != 70 {
		t.Fatalf("ScoreFinal = %v, want 70 (unchanged)", got.ScoreFinal)
	}
	if got.ScoreProvisional != 70 {
		t.Fatalf("ScoreProvisional = %d, want 70 (stale save must not land)", got.ScoreProvisional)
	}
}
