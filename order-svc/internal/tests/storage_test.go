package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"bakery-preorder/order-svc/internal/domain"
	"bakery-preorder/order-svc/internal/storage"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var menuColumns = []string{
	"id", "name", "category", "description", "price",
	"vegan", "gluten_free", "dairy_free", "nut_free",
	"available", "stock", "made_to_order",
}

func TestPostgresCatalog_LoadMenu(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(m sqlmock.Sqlmock)
		wantItems int
		wantErr   bool
	}{
		{
			name: "rows",
			setupMock: func(m sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(menuColumns).
					AddRow("sourdough-bread", "Classic Sourdough", "Breads", "Crusty.", "8.50", true, false, true, false, true, 0, true).
					AddRow("banana-bread", "Banana Bread", "Cakes", "", "6.00", false, false, false, true, true, 2, false)
				m.ExpectQuery("SELECT id, name, category").WillReturnRows(rows)
			},
			wantItems: 2,
		},
		{
			name: "query error",
			setupMock: func(m sqlmock.Sqlmock) {
				m.ExpectQuery("SELECT id, name, category").WillReturnError(errors.New("connection reset"))
			},
			wantErr: true,
		},
		{
			name: "bad price",
			setupMock: func(m sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(menuColumns).
					AddRow("x", "X", "Cakes", "", "not-a-number", false, false, false, false, true, 1, false)
				m.ExpectQuery("SELECT id, name, category").WillReturnRows(rows)
			},
			wantErr: true,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			db, m, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()
			testCase.setupMock(m)

			items, err := storage.NewPostgresCatalog(db).LoadMenu(context.Background())

			if testCase.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				require.Len(t, items, testCase.wantItems)
				assert.Equal(t, "8.5", items[0].Price.String())
				assert.True(t, items[0].DietaryInfo.Vegan)
				assert.Equal(t, domain.MadeToOrder, items[0].Mode())
				assert.Equal(t, 2, items[1].Stock)
				assert.True(t, items[1].DietaryInfo.NutFree)
			}
			assert.NoError(t, m.ExpectationsWereMet())
		})
	}
}

func TestPostgresCatalog_EnsureSchema(t *testing.T) {
	db, m, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	m.ExpectExec("CREATE TABLE IF NOT EXISTS menu_items").WillReturnResult(sqlmock.NewResult(0, 0))
	m.ExpectExec("ALTER TABLE IF EXISTS menu_items").WillReturnError(errors.New("permission denied"))

	err = storage.NewPostgresCatalog(db).EnsureSchema(context.Background())
	assert.ErrorContains(t, err, "permission denied")
	assert.NoError(t, m.ExpectationsWereMet())
}

func TestParseYAMLMenu(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
		check   func(t *testing.T, items []domain.MenuItem)
	}{
		{
			name: "defaults and tags",
			raw: `
items:
  - id: banana-bread
    name: Banana Bread
    category: Cakes
    price: "6.00"
    dietary: [nut_free, dairy_free]
    stock: 2
  - id: rye
    name: Rye
    category: Breads
    price: "7.25"
    available: false
    made_to_order: true
`,
			check: func(t *testing.T, items []domain.MenuItem) {
				require.Len(t, items, 2)
				assert.True(t, items[0].Available)
				assert.True(t, items[0].DietaryInfo.NutFree)
				assert.True(t, items[0].DietaryInfo.DairyFree)
				assert.False(t, items[0].DietaryInfo.Vegan)
				assert.Equal(t, 2, items[0].Stock)
				assert.False(t, items[1].Available)
				assert.Equal(t, domain.MadeToOrder, items[1].Mode())
				assert.Equal(t, "7.25", items[1].Price.String())
			},
		},
		{
			name:    "bad price",
			raw:     "items:\n  - id: x\n    price: cheap\n",
			wantErr: true,
		},
		{
			name:    "unknown dietary tag",
			raw:     "items:\n  - id: x\n    price: \"1\"\n    dietary: [keto]\n",
			wantErr: true,
		},
		{
			name:    "malformed yaml",
			raw:     "items: [",
			wantErr: true,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			items, err := storage.ParseYAMLMenu([]byte(testCase.raw))
			if testCase.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			testCase.check(t, items)
		})
	}
}

func TestYAMLCatalog_MissingFile(t *testing.T) {
	_, err := storage.NewYAMLCatalog("/nonexistent/menu.yaml").LoadMenu(context.Background())
	assert.Error(t, err)
}

func TestStaticCatalog(t *testing.T) {
	items, err := storage.StaticCatalog{}.LoadMenu(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 13)

	// Each call hands out an independent copy.
	items[0].Name = "changed"
	assert.NotEqual(t, "changed", storage.DefaultMenu()[0].Name)
}

func sampleSession(id string) *domain.Session {
	return &domain.Session{
		ID:    id,
		Lines: []domain.CartLine{{ItemID: "banana-bread", Name: "Banana Bread", Quantity: 2}},
		Form:  domain.DefaultOrderForm(),
	}
}

func TestRedisSessionStore(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := storage.NewRedisSessionStore(client, time.Hour)

	require.NoError(t, store.Create(ctx, sampleSession("abc")))
	assert.Error(t, store.Create(ctx, sampleSession("abc")))
	assert.True(t, mr.Exists("session:abc"))
	assert.Equal(t, time.Hour, mr.TTL("session:abc"))

	sess, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	require.Len(t, sess.Lines, 1)
	assert.Equal(t, 2, sess.Lines[0].Quantity)

	sess.Lines = nil
	require.NoError(t, store.Save(ctx, sess))
	sess, err = store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Empty(t, sess.Lines)

	mr.FastForward(2 * time.Hour)
	_, err = store.Get(ctx, "abc")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	require.NoError(t, store.Create(ctx, sampleSession("def")))
	require.NoError(t, store.Delete(ctx, "def"))
	_, err = store.Get(ctx, "def")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestMemorySessionStore(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemorySessionStore(time.Hour)

	require.NoError(t, store.Create(ctx, sampleSession("abc")))
	sess, err := store.Get(ctx, "abc")
	require.NoError(t, err)

	// Mutating a loaded session does not touch the stored copy.
	sess.Lines[0].Quantity = 9
	again, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, 2, again.Lines[0].Quantity)

	require.NoError(t, store.Delete(ctx, "abc"))
	_, err = store.Get(ctx, "abc")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.Equal(t, 0, store.Sweep())
}

func TestMemorySessionStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemorySessionStore(time.Millisecond)

	require.NoError(t, store.Create(ctx, sampleSession("a")))
	require.NoError(t, store.Create(ctx, sampleSession("b")))
	time.Sleep(5 * time.Millisecond)

	assert.Equal(t, 2, store.Sweep())
	_, err := store.Get(ctx, "a")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestKafkaPublisher_NoWriter(t *testing.T) {
	publisher := storage.NewKafkaPublisher(nil)
	err := publisher.PublishOrder(context.Background(), domain.OrderEvent{Type: domain.OrderPlacedEvent, Reference: "BK-0000ABCD"})
	assert.NoError(t, err)
}
