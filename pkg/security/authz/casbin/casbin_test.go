package casbin

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var (
	testPolicies = []Policy{
		{"guest", "posts", "read"},
		{"member", "posts", "create"},
	}
	testGroupings = []Grouping{
		{"member", "guest"},
		{"admin", "member"},
	}
)

func TestInheritance(t *testing.T) {
	e, err := NewEnforcer(nil)
	require.NoError(t, err)
	a, err := New(e, testPolicies, testGroupings)
	require.NoError(t, err)

	ctx := context.Background()
	tests := []struct {
		sub, obj, act string
		want          bool
	}{
		{"guest", "posts", "read", true},
		{"guest", "posts", "create", false},
		{"member", "posts", "read", true},
		{"member", "posts", "create", true},
		{"admin", "posts", "create", true},
		{"stranger", "posts", "read", false},
	}
	for _, tt := range tests {
		ok, err := a.Authorize(ctx, tt.sub, tt.obj, tt.act)
		require.NoError(t, err)
		assert.Equal(t, tt.want, ok, "%s %s:%s", tt.sub, tt.obj, tt.act)
	}
}

func TestGormEnforcerSeedIsIdempotent(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	for i := 0; i < 2; i++ {
		e, err := NewGormEnforcer(db)
		require.NoError(t, err)
		_, err = New(e, testPolicies, testGroupings)
		require.NoError(t, err)
	}

	var count int64
	require.NoError(t, db.Table("casbin_rule").Count(&count).Error)
	assert.EqualValues(t, len(testPolicies)+len(testGroupings), count)

	e, err := NewGormEnforcer(db)
	require.NoError(t, err)
	ok, err := e.Enforce("admin", "posts", "read")
	require.NoError(t, err)
	assert.True(t, ok)
}
