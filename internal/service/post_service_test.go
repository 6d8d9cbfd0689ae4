package service

import (
	"testing"
	"time"

	"github.com/antisocialnet/antisocialnet/internal/apperr"
	"github.com/antisocialnet/antisocialnet/internal/dto"
	"github.com/antisocialnet/antisocialnet/internal/model"
	"github.com/antisocialnet/antisocialnet/internal/target"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostCreateRendersMarkdown(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "author", false)
	svc := NewPostService(db, NewTagService(db), NewSettingService(db, nil))

	resp, err := svc.Create(viewerOf(author), &dto.PostCreateRequest{
		Title:   "第一篇",
		Content: "**加粗** 与 <script>alert(1)</script>",
		Publish: true,
	})
	require.NoError(t, err)
	assert.Contains(t, resp.Content, "<strong>加粗</strong>")
	assert.NotContains(t, resp.Content, "script")
	assert.True(t, resp.IsPublished)
	require.NotNil(t, resp.PublishedAt)

	// 发布即产生动态
	var a model.Activity
	require.NoError(t, db.First(&a).Error)
	assert.Equal(t, model.ActivityPosted, a.Type)
}

func TestPostPublishTransition(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "author", false)
	svc := NewPostService(db, NewTagService(db), NewSettingService(db, nil))

	draft, err := svc.Create(viewerOf(author), &dto.PostCreateRequest{
		Title: "草稿", Content: "内容", Publish: false,
	})
	require.NoError(t, err)
	assert.False(t, draft.IsPublished)
	assert.Nil(t, draft.PublishedAt)

	var activities int64
	require.NoError(t, db.Model(&model.Activity{}).Count(&activities).Error)
	assert.Zero(t, activities)

	// 发布：记录发布时间并产生动态
	publish := true
	published, err := svc.Update(viewerOf(author), draft.ID, &dto.PostUpdateRequest{Publish: &publish})
	require.NoError(t, err)
	assert.True(t, published.IsPublished)
	require.NotNil(t, published.PublishedAt)

	require.NoError(t, db.Model(&model.Activity{}).Count(&activities).Error)
	assert.EqualValues(t, 1, activities)

	// 取消发布：清空发布时间
	unpublish := false
	back, err := svc.Update(viewerOf(author), draft.ID, &dto.PostUpdateRequest{Publish: &unpublish})
	require.NoError(t, err)
	assert.False(t, back.IsPublished)
	assert.Nil(t, back.PublishedAt)
}

func TestDraftVisibility(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "author", false)
	stranger := createTestUser(t, db, "stranger", false)
	admin := createTestUser(t, db, "admin", true)
	draft := createTestPost(t, db, author.ID, "草稿", false)

	svc := NewPostService(db, NewTagService(db), NewSettingService(db, nil))

	_, err := svc.Get(nil, draft.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	_, err = svc.Get(viewerOf(stranger), draft.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	_, err = svc.Get(viewerOf(author), draft.ID)
	assert.NoError(t, err)

	_, err = svc.Get(viewerOf(admin), draft.ID)
	assert.NoError(t, err)
}

func TestPostTagsEnsured(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "author", false)
	svc := NewPostService(db, NewTagService(db), NewSettingService(db, nil))

	resp, err := svc.Create(viewerOf(author), &dto.PostCreateRequest{
		Title: "打标签", Content: "内容", Publish: true,
		Tags: "Go, web , go, ",
	})
	require.NoError(t, err)

	// 大小写不同视为同一标签，空白项丢弃
	require.Len(t, resp.Tags, 2)
	assert.Equal(t, "go", resp.Tags[0].Slug)
	assert.Equal(t, "web", resp.Tags[1].Slug)

	// 复用已有标签
	again, err := svc.Create(viewerOf(author), &dto.PostCreateRequest{
		Title: "再打标签", Content: "内容", Publish: true, Tags: "Go",
	})
	require.NoError(t, err)
	require.Len(t, again.Tags, 1)
	assert.Equal(t, resp.Tags[0].ID, again.Tags[0].ID)
}

func TestPostCascadeDelete(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "author", false)
	other := createTestUser(t, db, "other", false)
	svc := NewPostService(db, NewTagService(db), NewSettingService(db, nil))
	comments := NewCommentService(db)
	likes := NewLikeService(db, nil)

	post, err := svc.Create(viewerOf(author), &dto.PostCreateRequest{
		Title: "要删的", Content: "内容", Publish: true, Tags: "tag1",
	})
	require.NoError(t, err)

	comment, err := comments.Create(viewerOf(other), &dto.CommentCreateRequest{
		TargetType: "post", TargetID: post.ID, Text: "评论",
	})
	require.NoError(t, err)
	_, err = likes.Like(viewerOf(other), target.Ref{Type: target.TypePost, ID: post.ID})
	require.NoError(t, err)
	_, err = likes.Like(viewerOf(author), target.Ref{Type: target.TypeComment, ID: comment.ID})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(viewerOf(author), post.ID))

	var count int64
	require.NoError(t, db.Model(&model.Comment{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&model.Like{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&model.PostTag{}).Count(&count).Error)
	assert.Zero(t, count)

	// 历史通知保留，由读取端渲染墓碑
	require.NoError(t, db.Model(&model.Notification{}).Count(&count).Error)
	assert.NotZero(t, count)
}

func TestFeedOnlyFollowed(t *testing.T) {
	db := newTestDB(t)
	settings := NewSettingService(db, nil)
	require.NoError(t, settings.Seed())
	users := NewUserService(db, settings, NewMailService())
	svc := NewPostService(db, NewTagService(db), NewSettingService(db, nil))

	alice := createTestUser(t, db, "alice", false)
	bob := createTestUser(t, db, "bob", false)
	carol := createTestUser(t, db, "carol", false)

	createTestPost(t, db, bob.ID, "bob的帖子", true)
	createTestPost(t, db, carol.ID, "carol的帖子", true)
	createTestPost(t, db, alice.ID, "自己的帖子", true)
	createTestPost(t, db, bob.ID, "bob的草稿", false)

	require.NoError(t, users.Follow(viewerOf(alice), "bob"))

	feed, err := svc.Feed(viewerOf(alice), &dto.PageRequest{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, feed.Total)
	for _, p := range feed.List {
		assert.NotEqual(t, "carol的帖子", p.Title)
		assert.True(t, p.IsPublished)
	}
}

func TestListOrderCoalesce(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "author", false)
	svc := NewPostService(db, NewTagService(db), NewSettingService(db, nil))

	old := createTestPost(t, db, author.ID, "旧帖", true)
	older := time.Now().Add(-48 * time.Hour)
	require.NoError(t, db.Model(old).Update("published_at", &older).Error)
	createTestPost(t, db, author.ID, "新帖", true)

	list, err := svc.List(nil, &dto.PostListRequest{})
	require.NoError(t, err)
	require.Len(t, list.List, 2)
	assert.Equal(t, "新帖", list.List[0].Title)
	assert.Equal(t, "旧帖", list.List[1].Title)
}

func TestSearchSubstring(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "searchable", false)
	svc := NewPostService(db, NewTagService(db), NewSettingService(db, nil))

	createTestPost(t, db, author.ID, "golang 学习笔记", true)
	createTestPost(t, db, author.ID, "无关内容", true)
	createTestPost(t, db, author.ID, "golang 草稿", false)

	resp, err := svc.Search(nil, &dto.SearchRequest{Query: "golang"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, resp.Posts.Total) // 草稿对匿名不可见

	userResp, err := svc.Search(nil, &dto.SearchRequest{Query: "search"})
	require.NoError(t, err)
	require.Len(t, userResp.Users, 1)
	assert.Equal(t, "searchable", userResp.Users[0].Username)
}

func TestListPageSizeFromSetting(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "author", false)
	settings := NewSettingService(db, nil)
	require.NoError(t, settings.Seed())
	svc := NewPostService(db, NewTagService(db), settings)

	for i := 0; i < 3; i++ {
		createTestPost(t, db, author.ID, "帖子", true)
	}

	// 默认每页条数跟随站点设置
	_, err := settings.Set(model.SettingPostsPerPage, "2", model.ValueTypeInt)
	require.NoError(t, err)

	resp, err := svc.List(nil, &dto.PostListRequest{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, resp.Total)
	assert.Len(t, resp.List, 2)

	// 显式页大小优先于设置
	explicit, err := svc.List(nil, &dto.PostListRequest{PageRequest: dto.PageRequest{PageSize: 3}})
	require.NoError(t, err)
	assert.Len(t, explicit.List, 3)
}

func TestEditSourceRoundtrip(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "author", false)
	stranger := createTestUser(t, db, "stranger", false)
	svc := NewPostService(db, NewTagService(db), NewSettingService(db, nil))

	post, err := svc.Create(viewerOf(author), &dto.PostCreateRequest{
		Title: "回填", Content: "**加粗**文本", Publish: true,
	})
	require.NoError(t, err)

	source, err := svc.EditSource(viewerOf(author), post.ID)
	require.NoError(t, err)
	assert.Contains(t, source, "**加粗**")

	_, err = svc.EditSource(viewerOf(stranger), post.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}
