package target

import (
	"fmt"
	"strings"
	"testing"

	"github.com/antisocialnet/antisocialnet/internal/apperr"
	"github.com/antisocialnet/antisocialnet/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

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

func TestTypePredicates(t *testing.T) {
	assert.True(t, TypePost.Valid())
	assert.True(t, TypeUser.Valid())
	assert.False(t, Type("page").Valid())

	assert.True(t, TypePost.Likeable())
	assert.False(t, TypeUser.Likeable())

	assert.True(t, TypePhoto.Commentable())
	assert.False(t, TypeUser.Commentable())
}

func TestResolvePost(t *testing.T) {
	db := newTestDB(t)
	user := model.User{Username: "alice", Email: "a@example.com", Password: "x"}
	require.NoError(t, db.Create(&user).Error)
	post := model.Post{AuthorID: user.ID, Title: "标题", Content: "<p>x</p>", IsPublished: true}
	require.NoError(t, db.Create(&post).Error)

	res, err := NewRegistry(db).Resolve(Ref{Type: TypePost, ID: post.ID})
	require.NoError(t, err)
	assert.Equal(t, user.ID, res.OwnerID)
	assert.Equal(t, "标题", res.Preview)
	assert.Equal(t, Ref{Type: TypePost, ID: post.ID}, res.Root)
}

func TestResolveCommentRoot(t *testing.T) {
	db := newTestDB(t)
	user := model.User{Username: "alice", Email: "a@example.com", Password: "x"}
	require.NoError(t, db.Create(&user).Error)
	post := model.Post{AuthorID: user.ID, Title: "标题", Content: "<p>x</p>", IsPublished: true}
	require.NoError(t, db.Create(&post).Error)
	comment := model.Comment{
		AuthorID:   user.ID,
		TargetType: string(TypePost),
		TargetID:   post.ID,
		TextRaw:    "评论",
		TextHTML:   "<p>评论正文</p>",
	}
	require.NoError(t, db.Create(&comment).Error)

	// 评论的根目标来自其冗余的目标对
	res, err := NewRegistry(db).Resolve(Ref{Type: TypeComment, ID: comment.ID})
	require.NoError(t, err)
	assert.Equal(t, user.ID, res.OwnerID)
	assert.Contains(t, res.Preview, "评论正文")
	assert.Equal(t, Ref{Type: TypePost, ID: post.ID}, res.Root)
}

func TestResolveUserAndPhoto(t *testing.T) {
	db := newTestDB(t)
	user := model.User{Username: "alice", Email: "a@example.com", Password: "x"}
	require.NoError(t, db.Create(&user).Error)
	photo := model.Photo{OwnerID: user.ID, Filename: "gallery/x.jpg", Caption: "照片说明"}
	require.NoError(t, db.Create(&photo).Error)

	reg := NewRegistry(db)

	asUser, err := reg.Resolve(Ref{Type: TypeUser, ID: user.ID})
	require.NoError(t, err)
	assert.Equal(t, user.ID, asUser.OwnerID)
	assert.Equal(t, "alice", asUser.Preview)

	asPhoto, err := reg.Resolve(Ref{Type: TypePhoto, ID: photo.ID})
	require.NoError(t, err)
	assert.Equal(t, "照片说明", asPhoto.Preview)
}

func TestResolveErrors(t *testing.T) {
	db := newTestDB(t)
	reg := NewRegistry(db)

	_, err := reg.Resolve(Ref{Type: TypePost, ID: 9999})
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidTarget))

	_, err = reg.Resolve(Ref{Type: Type("page"), ID: 1})
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidTarget))
}
