package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/slabmarket-next/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupCartRepositoryTest(t *testing.T) (*GormCartRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:cart_repo_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.CartItem{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewCartRepository(db), db
}

func TestCartRepositoryUpsertSetSemantics(t *testing.T) {
	repo, _ := setupCartRepositoryTest(t)

	item := &models.CartItem{SessionID: "sess-1", ListingID: 7}
	if err := repo.Upsert(item); err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}
	firstAdded := item.AddedAt

	// 重复加入同一商品不得新增行，也不得刷新加入时间
	dup := &models.CartItem{SessionID: "sess-1", ListingID: 7}
	if err := repo.Upsert(dup); err != nil {
		t.Fatalf("duplicate upsert failed: %v", err)
	}

	items, err := repo.ListAllByIdentity(0, "sess-1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 cart item, got %d", len(items))
	}
	if !items[0].AddedAt.Equal(firstAdded) {
		t.Fatalf("added_at changed on duplicate upsert: %v vs %v", items[0].AddedAt, firstAdded)
	}
}

func TestCartRepositoryIdentityIsolation(t *testing.T) {
	repo, _ := setupCartRepositoryTest(t)

	if err := repo.Upsert(&models.CartItem{SessionID: "sess-a", ListingID: 1}); err != nil {
		t.Fatalf("upsert session item failed: %v", err)
	}
	if err := repo.Upsert(&models.CartItem{UserID: 9, ListingID: 1}); err != nil {
		t.Fatalf("upsert user item failed: %v", err)
	}

	sessionItems, err := repo.ListByIdentity(0, "sess-a", false)
	if err != nil {
		t.Fatalf("list session items failed: %v", err)
	}
	userItems, err := repo.ListByIdentity(9, "", false)
	if err != nil {
		t.Fatalf("list user items failed: %v", err)
	}
	if len(sessionItems) != 1 || len(userItems) != 1 {
		t.Fatalf("expected isolated carts, got session=%d user=%d", len(sessionItems), len(userItems))
	}
}

func TestCartRepositorySetSaved(t *testing.T) {
	repo, _ := setupCartRepositoryTest(t)

	if err := repo.Upsert(&models.CartItem{UserID: 3, ListingID: 11}); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	affected, err := repo.SetSaved(3, "", 11, true)
	if err != nil {
		t.Fatalf("set saved failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("expected 1 row moved, got %d", affected)
	}

	active, err := repo.ListByIdentity(3, "", false)
	if err != nil {
		t.Fatalf("list active failed: %v", err)
	}
	saved, err := repo.ListByIdentity(3, "", true)
	if err != nil {
		t.Fatalf("list saved failed: %v", err)
	}
	if len(active) != 0 || len(saved) != 1 {
		t.Fatalf("expected item in saved section, got active=%d saved=%d", len(active), len(saved))
	}
}

func TestCartRepositoryReassignToUser(t *testing.T) {
	repo, _ := setupCartRepositoryTest(t)

	if err := repo.Upsert(&models.CartItem{SessionID: "sess-m", ListingID: 21}); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if err := repo.Upsert(&models.CartItem{SessionID: "sess-m", ListingID: 22}); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	moved, err := repo.ReassignToUser("sess-m", []uint{21}, 5)
	if err != nil {
		t.Fatalf("reassign failed: %v", err)
	}
	if moved != 1 {
		t.Fatalf("expected 1 row reassigned, got %d", moved)
	}

	if err := repo.DeleteBySession("sess-m"); err != nil {
		t.Fatalf("delete session failed: %v", err)
	}

	userItems, err := repo.ListAllByIdentity(5, "")
	if err != nil {
		t.Fatalf("list user items failed: %v", err)
	}
	if len(userItems) != 1 || userItems[0].ListingID != 21 {
		t.Fatalf("unexpected user cart after merge: %+v", userItems)
	}
	sessionItems, err := repo.ListAllByIdentity(0, "sess-m")
	if err != nil {
		t.Fatalf("list session items failed: %v", err)
	}
	if len(sessionItems) != 0 {
		t.Fatalf("expected empty session cart, got %d items", len(sessionItems))
	}
}
