package service

import (
	"fmt"
	"strings"
	"testing"

	"github.com/antisocialnet/antisocialnet/internal/config"
	"github.com/antisocialnet/antisocialnet/internal/model"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	config.Set(&config.Config{
		JWT: config.JWTConfig{
			SecretKey:            "test-secret",
			AccessExpireSeconds:  3600,
			RefreshExpireSeconds: 7200,
			ResetExpireSeconds:   3600,
			Issuer:               "test",
		},
		Upload: config.UploadConfig{
			Root:            "testdata/uploads",
			URLPrefix:       "/uploads",
			ProfileMaxBytes: 2 << 20,
			GalleryMaxBytes: 8 << 20,
		},
		Mail: config.MailConfig{Suppress: true},
	})
}

// newTestDB 每个测试独立的内存库，单连接避免内存库分裂
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, model.InitTables(db))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string, isAdmin bool) *model.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := model.User{
		Username:        username,
		Email:           username + "@example.com",
		Password:        string(hashed),
		IsProfilePublic: true,
		Theme:           "light",
		IsAdmin:         isAdmin,
		IsApproved:      true,
		IsActive:        true,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createTestPost(t *testing.T, db *gorm.DB, authorID uint, title string, published bool) *model.Post {
	t.Helper()

	post := model.Post{
		AuthorID:    authorID,
		Title:       title,
		Content:     "<p>" + title + "</p>",
		IsPublished: published,
	}
	if published {
		now := db.NowFunc()
		post.PublishedAt = &now
	}
	require.NoError(t, db.Create(&post).Error)
	return &post
}

func viewerOf(u *model.User) *Viewer {
	return &Viewer{ID: u.ID, IsAdmin: u.IsAdmin}
}
