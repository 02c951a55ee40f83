package satori

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/nidhogg/crossgate/internal/adapter"
	"github.com/nidhogg/crossgate/internal/model"
)

func (c *Codec) buildActions() map[string]handler {
	return map[string]handler{
		"message.create":    c.messageCreate,
		"message.delete":    c.messageDelete,
		"message.get":       c.messageGet,
		"message.list":      c.messageList,
		"channel.get":       c.channelGet,
		"channel.list":      c.channelList,
		"channel.create":    c.channelCreate,
		"channel.update":    c.channelUpdate,
		"channel.delete":    c.channelDelete,
		"guild.get":         c.guildGet,
		"guild.list":        c.guildList,
		"guild.member.get":  c.guildMemberGet,
		"guild.member.list": c.guildMemberList,
		"guild.member.kick": c.guildMemberKick,
		"guild.member.mute": c.guildMemberMute,
		"login.get":         c.loginGet,
		"friend.list":       c.friendList,
		"user.get":          c.userGet,
	}
}

// channelScene splits a wire channel_id into the canonical scene. Direct
// chats use the "private:" prefix convention; everything else is a
// channel (or plain group on flat platforms).
func (c *Codec) channelScene(ctx context.Context, channelID string) (model.SceneType, model.ID, error) {
	if user, ok := strings.CutPrefix(channelID, "private:"); ok {
		id, err := c.resolve(ctx, user)
		return model.SceneFriend, id, err
	}
	id, err := c.resolve(ctx, channelID)
	return model.SceneChannel, id, err
}

type messageCreateParams struct {
	ChannelID string `json:"channel_id"`
	Content   string `json:"content"`
}

func (c *Codec) messageCreate(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := decode[messageCreateParams](params)
	if err != nil {
		return nil, err
	}
	scene, sceneID, err := c.channelScene(ctx, p.ChannelID)
	if err != nil {
		return nil, err
	}
	segs, err := c.decodeContent(ctx, p.Content)
	if err != nil {
		return nil, err
	}
	res, err := c.api.SendMessage(ctx, adapter.SendMessageParams{
		Scene:    scene,
		SceneID:  sceneID,
		Segments: segs,
	})
	if err != nil {
		return nil, err
	}
	return []wireMessage{{ID: res.MessageID.Str, Content: p.Content}}, nil
}

type messageRefParams struct {
	ChannelID string `json:"channel_id"`
	MessageID string `json:"message_id"`
}

func (c *Codec) messageDelete(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := decode[messageRefParams](params)
	if err != nil {
		return nil, err
	}
	msg, err := c.resolve(ctx, p.MessageID)
	if err != nil {
		return nil, err
	}
	return nil, c.api.DeleteMessage(ctx, adapter.MessageParams{MessageID: msg})
}

func (c *Codec) messageGet(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := decode[messageRefParams](params)
	if err != nil {
		return nil, err
	}
	msg, err := c.resolve(ctx, p.MessageID)
	if err != nil {
		return nil, err
	}
	stored, err := c.api.GetMessage(ctx, adapter.MessageParams{MessageID: msg})
	if err != nil {
		return nil, err
	}
	return c.storedMessage(stored), nil
}

type messageListParams struct {
	ChannelID string `json:"channel_id"`
	Next      string `json:"next"`
	Limit     int    `json:"limit"`
}

func (c *Codec) messageList(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := decode[messageListParams](params)
	if err != nil {
		return nil, err
	}
	scene, sceneID, err := c.channelScene(ctx, p.ChannelID)
	if err != nil {
		return nil, err
	}
	hp := adapter.HistoryParams{Scene: scene, SceneID: sceneID, Limit: p.Limit}
	if p.Next != "" {
		before, err := c.resolve(ctx, p.Next)
		if err != nil {
			return nil, err
		}
		hp.Before = before
	}
	msgs, err := c.api.GetMessageHistory(ctx, hp)
	if err != nil {
		return nil, err
	}
	data := make([]map[string]any, 0, len(msgs))
	for i := range msgs {
		data = append(data, c.storedMessage(&msgs[i]))
	}
	page := map[string]any{"data": data}
	if len(msgs) > 0 {
		page["next"] = msgs[0].MessageID.Str
	}
	return page, nil
}

func (c *Codec) storedMessage(m *model.StoredMessage) map[string]any {
	out := map[string]any{
		"id":        m.MessageID.Str,
		"content":   encodeContent(m.Segments),
		"user":      user(&m.Sender),
		"timestamp": m.Time.UnixMilli(),
	}
	if m.Scene == model.SceneFriend {
		out["channel"] = &wireChannel{ID: "private:" + m.Sender.ID.Str, Type: channelDirect}
	} else {
		out["channel"] = &wireChannel{ID: m.SceneID.Str, Type: channelText}
	}
	return out
}

type channelRefParams struct {
	ChannelID string `json:"channel_id"`
}

func (c *Codec) channelGet(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := decode[channelRefParams](params)
	if err != nil {
		return nil, err
	}
	id, err := c.resolve(ctx, p.ChannelID)
	if err != nil {
		return nil, err
	}
	ch, err := c.api.GetChannelInfo(ctx, adapter.ChannelParams{ChannelID: id})
	if err != nil {
		return nil, err
	}
	return channel(ch), nil
}

type guildRefParams struct {
	GuildID string `json:"guild_id"`
}

func (c *Codec) channelList(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := decode[guildRefParams](params)
	if err != nil {
		return nil, err
	}
	guild, err := c.resolve(ctx, p.GuildID)
	if err != nil {
		return nil, err
	}
	chans, err := c.api.GetChannelList(ctx, adapter.GuildParams{GuildID: guild})
	if err != nil {
		return nil, err
	}
	data := make([]*wireChannel, 0, len(chans))
	for i := range chans {
		data = append(data, channel(&chans[i]))
	}
	return map[string]any{"data": data}, nil
}

type channelCreateParams struct {
	GuildID string      `json:"guild_id"`
	Data    wireChannel `json:"data"`
}

func (c *Codec) channelCreate(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := decode[channelCreateParams](params)
	if err != nil {
		return nil, err
	}
	guild, err := c.resolve(ctx, p.GuildID)
	if err != nil {
		return nil, err
	}
	kind := model.ChannelText
	switch p.Data.Type {
	case channelVoice:
		kind = model.ChannelVoice
	case channelCategory:
		kind = model.ChannelCategory
	}
	ch, err := c.api.CreateChannel(ctx, adapter.CreateChannelParams{
		GuildID: guild,
		Name:    p.Data.Name,
		Type:    kind,
	})
	if err != nil {
		return nil, err
	}
	return channel(ch), nil
}

type channelUpdateParams struct {
	ChannelID string      `json:"channel_id"`
	Data      wireChannel `json:"data"`
}

func (c *Codec) channelUpdate(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := decode[channelUpdateParams](params)
	if err != nil {
		return nil, err
	}
	id, err := c.resolve(ctx, p.ChannelID)
	if err != nil {
		return nil, err
	}
	return nil, c.api.UpdateChannel(ctx, adapter.UpdateChannelParams{ChannelID: id, Name: p.Data.Name})
}

func (c *Codec) channelDelete(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := decode[channelRefParams](params)
	if err != nil {
		return nil, err
	}
	id, err := c.resolve(ctx, p.ChannelID)
	if err != nil {
		return nil, err
	}
	return nil, c.api.DeleteChannel(ctx, adapter.ChannelParams{ChannelID: id})
}

func (c *Codec) guildGet(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := decode[guildRefParams](params)
	if err != nil {
		return nil, err
	}
	guild, err := c.resolve(ctx, p.GuildID)
	if err != nil {
		return nil, err
	}
	g, err := c.api.GetGuildInfo(ctx, adapter.GuildParams{GuildID: guild})
	if err != nil {
		return nil, err
	}
	return &wireGuild{ID: g.ID.Str, Name: g.Name, Avatar: g.Avatar}, nil
}

func (c *Codec) guildList(ctx context.Context, _ json.RawMessage) (any, error) {
	guilds, err := c.api.GetGuildList(ctx)
	if err != nil {
		return nil, err
	}
	data := make([]*wireGuild, 0, len(guilds))
	for _, g := range guilds {
		data = append(data, &wireGuild{ID: g.ID.Str, Name: g.Name, Avatar: g.Avatar})
	}
	return map[string]any{"data": data}, nil
}

type guildUserParams struct {
	GuildID string `json:"guild_id"`
	UserID  string `json:"user_id"`
}

func (c *Codec) guildUser(ctx context.Context, params json.RawMessage) (model.ID, model.ID, error) {
	p, err := decode[guildUserParams](params)
	if err != nil {
		return model.ID{}, model.ID{}, err
	}
	guild, err := c.resolve(ctx, p.GuildID)
	if err != nil {
		return model.ID{}, model.ID{}, err
	}
	u, err := c.resolve(ctx, p.UserID)
	if err != nil {
		return model.ID{}, model.ID{}, err
	}
	return guild, u, nil
}

func (c *Codec) guildMemberGet(ctx context.Context, params json.RawMessage) (any, error) {
	guild, u, err := c.guildUser(ctx, params)
	if err != nil {
		return nil, err
	}
	m, err := c.api.GetGuildMemberInfo(ctx, adapter.GuildUserParams{GuildID: guild, UserID: u})
	if err != nil {
		return nil, err
	}
	return guildMember(m), nil
}

func (c *Codec) guildMemberList(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := decode[guildRefParams](params)
	if err != nil {
		return nil, err
	}
	guild, err := c.resolve(ctx, p.GuildID)
	if err != nil {
		return nil, err
	}
	members, err := c.api.GetGuildMemberList(ctx, adapter.GuildParams{GuildID: guild})
	if err != nil {
		return nil, err
	}
	data := make([]*wireMember, 0, len(members))
	for i := range members {
		data = append(data, guildMember(&members[i]))
	}
	return map[string]any{"data": data}, nil
}

func guildMember(m *model.GuildMember) *wireMember {
	w := &wireMember{User: user(&m.User)}
	if !m.JoinedAt.IsZero() {
		w.JoinedAt = m.JoinedAt.UnixMilli()
	}
	return w
}

func (c *Codec) guildMemberKick(ctx context.Context, params json.RawMessage) (any, error) {
	guild, u, err := c.guildUser(ctx, params)
	if err != nil {
		return nil, err
	}
	return nil, c.api.KickChannelMember(ctx, adapter.GuildUserParams{GuildID: guild, UserID: u})
}

type guildMuteParams struct {
	GuildID  string `json:"guild_id"`
	UserID   string `json:"user_id"`
	Duration int64  `json:"duration"`
}

func (c *Codec) guildMemberMute(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := decode[guildMuteParams](params)
	if err != nil {
		return nil, err
	}
	guild, err := c.resolve(ctx, p.GuildID)
	if err != nil {
		return nil, err
	}
	u, err := c.resolve(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	return nil, c.api.MuteChannelMember(ctx, adapter.ChannelMuteParams{
		ChannelID: guild,
		UserID:    u,
		Duration:  time.Duration(p.Duration) * time.Millisecond,
	})
}

func (c *Codec) loginGet(ctx context.Context, _ json.RawMessage) (any, error) {
	u, err := c.api.GetLoginInfo(ctx)
	if err != nil {
		return nil, err
	}
	return &wireLogin{
		User:     user(u),
		SelfID:   u.ID.Str,
		Platform: c.platform,
		Status:   1,
	}, nil
}

func (c *Codec) friendList(ctx context.Context, _ json.RawMessage) (any, error) {
	friends, err := c.api.GetFriendList(ctx)
	if err != nil {
		return nil, err
	}
	data := make([]*wireUser, 0, len(friends))
	for i := range friends {
		data = append(data, user(&friends[i].User))
	}
	return map[string]any{"data": data}, nil
}

type userRefParams struct {
	UserID string `json:"user_id"`
}

func (c *Codec) userGet(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := decode[userRefParams](params)
	if err != nil {
		return nil, err
	}
	id, err := c.resolve(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	u, err := c.api.GetUserInfo(ctx, adapter.UserParams{UserID: id})
	if err != nil {
		return nil, err
	}
	return user(u), nil
}
