package service

import (
	"fmt"

	"github.com/antisocialnet/antisocialnet/internal/apperr"
	"github.com/antisocialnet/antisocialnet/internal/model"
	"github.com/antisocialnet/antisocialnet/internal/target"
	"gorm.io/gorm"
)

// effects 收集一次变更产生的副作用（通知+动态），由 commit 在同一事务内落库。
// 观察者不会看到没有对应通知/动态的点赞，反之亦然。
type effects struct {
	actorID       uint
	notifications []*model.Notification
	activities    []*model.Activity
	seen          map[string]bool
}

// newEffects 创建副作用收集器
func newEffects(actorID uint) *effects {
	return &effects{
		actorID: actorID,
		seen:    make(map[string]bool),
	}
}

// notify 登记一条通知
// 给自己的通知直接丢弃；同一动作内相同 (recipient,type,target) 合并为一条
func (e *effects) notify(recipientID uint, typ string, ref *target.Ref) {
	if recipientID == e.actorID || recipientID == 0 {
		return
	}

	key := dedupKey(recipientID, typ, ref)
	if e.seen[key] {
		return
	}
	e.seen[key] = true

	actorID := e.actorID
	n := &model.Notification{
		RecipientID: recipientID,
		ActorID:     &actorID,
		Type:        typ,
	}
	if ref != nil {
		t := string(ref.Type)
		id := ref.ID
		n.TargetType = &t
		n.TargetID = &id
	}
	e.notifications = append(e.notifications, n)
}

// act 登记一条动态
func (e *effects) act(typ string, ref *target.Ref) {
	a := &model.Activity{
		ActorID: e.actorID,
		Type:    typ,
	}
	if ref != nil {
		t := string(ref.Type)
		id := ref.ID
		a.TargetType = &t
		a.TargetID = &id
	}
	e.activities = append(e.activities, a)
}

// commit 在事务内写入全部副作用
func (e *effects) commit(tx *gorm.DB) error {
	for _, n := range e.notifications {
		if err := tx.Create(n).Error; err != nil {
			return apperr.Storage(err)
		}
	}
	for _, a := range e.activities {
		if err := tx.Create(a).Error; err != nil {
			return apperr.Storage(err)
		}
	}
	return nil
}

func dedupKey(recipientID uint, typ string, ref *target.Ref) string {
	if ref == nil {
		return fmt.Sprintf("%d|%s", recipientID, typ)
	}
	return fmt.Sprintf("%d|%s|%s|%d", recipientID, typ, ref.Type, ref.ID)
}
