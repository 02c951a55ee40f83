package gateway

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nidhogg/crossgate/internal/adapter"
	"github.com/nidhogg/crossgate/internal/model"
)

// Demo is an in-process adapter for the "demo" platform. It supports a
// small slice of the contract backed by process memory, enough to run the
// binary end to end without vendor credentials; everything else reports
// the capability as unimplemented.
type Demo struct {
	adapter.Unsupported
	self model.ID

	mu       sync.Mutex
	nextID   int64
	messages map[int64]model.StoredMessage
}

// NewDemo creates the demo adapter for the given bot identity.
func NewDemo(self model.ID) *Demo {
	return &Demo{
		Unsupported: adapter.Unsupported{Platform: "demo"},
		self:        self,
		nextID:      1,
		messages:    map[int64]model.StoredMessage{},
	}
}

func (d *Demo) store(scene model.SceneType, sceneID model.ID, segs []model.Segment) *adapter.SendMessageResult {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := d.nextID
	d.nextID++
	msg := model.StoredMessage{
		MessageID: model.NumericID(id),
		Scene:     scene,
		SceneID:   sceneID,
		Sender:    model.User{ID: d.self, Name: "demo-bot"},
		Segments:  segs,
		Time:      time.Now(),
	}
	d.messages[id] = msg
	return &adapter.SendMessageResult{MessageID: msg.MessageID, Time: msg.Time}
}

func (d *Demo) SendMessage(_ context.Context, p adapter.SendMessageParams) (*adapter.SendMessageResult, error) {
	return d.store(p.Scene, p.SceneID, p.Segments), nil
}

func (d *Demo) SendPrivateMessage(_ context.Context, user model.ID, segs []model.Segment) (*adapter.SendMessageResult, error) {
	return d.store(model.SceneFriend, user, segs), nil
}

func (d *Demo) SendGroupMessage(_ context.Context, group model.ID, segs []model.Segment) (*adapter.SendMessageResult, error) {
	return d.store(model.SceneGroup, group, segs), nil
}

func (d *Demo) DeleteMessage(_ context.Context, p adapter.MessageParams) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.messages[p.MessageID.Num]; !ok {
		return fmt.Errorf("no such message: %d", p.MessageID.Num)
	}
	delete(d.messages, p.MessageID.Num)
	return nil
}

func (d *Demo) GetMessage(_ context.Context, p adapter.MessageParams) (*model.StoredMessage, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	msg, ok := d.messages[p.MessageID.Num]
	if !ok {
		return nil, fmt.Errorf("no such message: %d", p.MessageID.Num)
	}
	return &msg, nil
}

func (d *Demo) GetLoginInfo(context.Context) (*model.User, error) {
	return &model.User{ID: d.self, Name: "demo-bot", IsBot: true}, nil
}

func (d *Demo) GetFriendList(context.Context) ([]model.Friend, error) {
	return []model.Friend{}, nil
}

func (d *Demo) GetStatus(context.Context) (*model.Status, error) {
	return &model.Status{Online: true, Good: true}, nil
}

func (d *Demo) GetVersion(context.Context) (*model.Version, error) {
	return &model.Version{AppName: "crossgate", AppVersion: "0.1.0", Platform: "demo"}, nil
}
