package onebot12

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/nidhogg/crossgate/internal/adapter"
	"github.com/nidhogg/crossgate/internal/model"
)

func (c *Codec) buildActions() map[string]handler {
	return map[string]handler{
		"send_message":          c.sendMessage,
		"delete_message":        c.deleteMessage,
		"get_message":           c.getMessage,
		"get_latest_events":     c.getLatestEvents,
		"get_supported_actions": c.getSupportedActions,
		"get_status":            c.getStatus,
		"get_version":           c.getVersion,
		"get_self_info":         c.getSelfInfo,
		"get_user_info":         c.getUserInfo,
		"get_friend_list":       c.getFriendList,
		"get_group_info":        c.getGroupInfo,
		"get_group_list":        c.getGroupList,
		"get_group_member_info": c.getGroupMemberInfo,
		"get_group_member_list": c.getGroupMemberList,
		"set_group_name":        c.setGroupName,
		"leave_group":           c.leaveGroup,
		"get_guild_info":        c.getGuildInfo,
		"get_guild_list":        c.getGuildList,
		"leave_guild":           c.leaveGuild,
		"get_channel_info":      c.getChannelInfo,
		"get_channel_list":      c.getChannelList,
		"get_guild_member_info": c.getGuildMemberInfo,
		"get_guild_member_list": c.getGuildMemberList,
		"upload_file":           c.uploadFile,
		"get_file":              c.getFile,
	}
}

type sendMessageParams struct {
	DetailType string        `json:"detail_type"`
	UserID     string        `json:"user_id"`
	GroupID    string        `json:"group_id"`
	GuildID    string        `json:"guild_id"`
	ChannelID  string        `json:"channel_id"`
	Message    []wireSegment `json:"message"`
}

func (c *Codec) sendMessage(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := decode[sendMessageParams](params)
	if err != nil {
		return nil, err
	}
	segs, err := c.decodeSegments(ctx, p.Message)
	if err != nil {
		return nil, err
	}

	var res *adapter.SendMessageResult
	switch p.DetailType {
	case "private":
		user, err := c.resolve(ctx, p.UserID)
		if err != nil {
			return nil, err
		}
		res, err = c.api.SendPrivateMessage(ctx, user, segs)
		if err != nil {
			return nil, err
		}
	case "group":
		group, err := c.resolve(ctx, p.GroupID)
		if err != nil {
			return nil, err
		}
		res, err = c.api.SendGroupMessage(ctx, group, segs)
		if err != nil {
			return nil, err
		}
	case "channel":
		channel, err := c.resolve(ctx, p.ChannelID)
		if err != nil {
			return nil, err
		}
		res, err = c.api.SendChannelMessage(ctx, adapter.ChannelMessageParams{
			ChannelID: channel, Segments: segs,
		})
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: detail_type %q", errBadParam, p.DetailType)
	}
	return map[string]any{
		"message_id": res.MessageID.Str,
		"time":       float64(res.Time.UnixMilli()) / 1000,
	}, nil
}

func (c *Codec) deleteMessage(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := decode[struct {
		MessageID string `json:"message_id"`
	}](params)
	if err != nil {
		return nil, err
	}
	id, err := c.resolve(ctx, p.MessageID)
	if err != nil {
		return nil, err
	}
	return nil, c.api.DeleteMessage(ctx, adapter.MessageParams{MessageID: id})
}

func (c *Codec) getMessage(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := decode[struct {
		MessageID string `json:"message_id"`
	}](params)
	if err != nil {
		return nil, err
	}
	id, err := c.resolve(ctx, p.MessageID)
	if err != nil {
		return nil, err
	}
	m, err := c.api.GetMessage(ctx, adapter.MessageParams{MessageID: id})
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"message_id":  m.MessageID.Str,
		"message":     c.encodeSegments(m.Segments),
		"alt_message": model.PlainText(m.Segments),
		"time":        float64(m.Time.UnixMilli()) / 1000,
	}, nil
}

// getLatestEvents serves the pull-style polling transport from the
// engine's bounded history ring.
func (c *Codec) getLatestEvents(_ context.Context, params json.RawMessage) (any, error) {
	p, err := decode[struct {
		Limit int `json:"limit"`
	}](params)
	if err != nil {
		return nil, err
	}
	raw := c.history.Latest(p.Limit)
	events := make([]json.RawMessage, len(raw))
	copy(events, raw)
	return events, nil
}

func (c *Codec) getSupportedActions(context.Context, json.RawMessage) (any, error) {
	names := make([]string, 0, len(c.actions))
	for name := range c.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (c *Codec) getStatus(ctx context.Context, _ json.RawMessage) (any, error) {
	st, err := c.api.GetStatus(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"good": st.Good,
		"bots": []map[string]any{{
			"self":   map[string]any{"platform": c.platform, "user_id": c.self.Str},
			"online": st.Online,
		}},
	}, nil
}

func (c *Codec) getVersion(ctx context.Context, _ json.RawMessage) (any, error) {
	v, err := c.api.GetVersion(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"impl":           v.AppName,
		"version":        v.AppVersion,
		"onebot_version": "12",
	}, nil
}

func user(u *model.User) map[string]any {
	return map[string]any{
		"user_id":          u.ID.Str,
		"user_name":        u.Name,
		"user_displayname": u.Nickname,
	}
}

func (c *Codec) getSelfInfo(ctx context.Context, _ json.RawMessage) (any, error) {
	u, err := c.api.GetLoginInfo(ctx)
	if err != nil {
		return nil, err
	}
	return user(u), nil
}

func (c *Codec) getUserInfo(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := decode[struct {
		UserID string `json:"user_id"`
	}](params)
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

func (c *Codec) getFriendList(ctx context.Context, _ json.RawMessage) (any, error) {
	friends, err := c.api.GetFriendList(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(friends))
	for _, f := range friends {
		entry := user(&f.User)
		entry["user_remark"] = f.Remark
		out = append(out, entry)
	}
	return out, nil
}

func (c *Codec) groupID(ctx context.Context, params json.RawMessage) (model.ID, error) {
	p, err := decode[struct {
		GroupID string `json:"group_id"`
	}](params)
	if err != nil {
		return model.ID{}, err
	}
	return c.resolve(ctx, p.GroupID)
}

func (c *Codec) getGroupInfo(ctx context.Context, params json.RawMessage) (any, error) {
	id, err := c.groupID(ctx, params)
	if err != nil {
		return nil, err
	}
	g, err := c.api.GetGroupInfo(ctx, adapter.GroupParams{GroupID: id})
	if err != nil {
		return nil, err
	}
	return map[string]any{"group_id": g.ID.Str, "group_name": g.Name}, nil
}

func (c *Codec) getGroupList(ctx context.Context, _ json.RawMessage) (any, error) {
	groups, err := c.api.GetGroupList(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(groups))
	for _, g := range groups {
		out = append(out, map[string]any{"group_id": g.ID.Str, "group_name": g.Name})
	}
	return out, nil
}

func (c *Codec) getGroupMemberInfo(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := decode[struct {
		GroupID string `json:"group_id"`
		UserID  string `json:"user_id"`
	}](params)
	if err != nil {
		return nil, err
	}
	group, err := c.resolve(ctx, p.GroupID)
	if err != nil {
		return nil, err
	}
	u, err := c.resolve(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	m, err := c.api.GetGroupMemberInfo(ctx, adapter.GroupUserParams{GroupID: group, UserID: u})
	if err != nil {
		return nil, err
	}
	entry := user(&m.User)
	entry["user_displayname"] = m.Card
	return entry, nil
}

func (c *Codec) getGroupMemberList(ctx context.Context, params json.RawMessage) (any, error) {
	id, err := c.groupID(ctx, params)
	if err != nil {
		return nil, err
	}
	members, err := c.api.GetGroupMemberList(ctx, adapter.GroupParams{GroupID: id})
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(members))
	for i := range members {
		out = append(out, user(&members[i].User))
	}
	return out, nil
}

func (c *Codec) setGroupName(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := decode[struct {
		GroupID   string `json:"group_id"`
		GroupName string `json:"group_name"`
	}](params)
	if err != nil {
		return nil, err
	}
	id, err := c.resolve(ctx, p.GroupID)
	if err != nil {
		return nil, err
	}
	return nil, c.api.SetGroupName(ctx, adapter.GroupNameParams{GroupID: id, Name: p.GroupName})
}

func (c *Codec) leaveGroup(ctx context.Context, params json.RawMessage) (any, error) {
	id, err := c.groupID(ctx, params)
	if err != nil {
		return nil, err
	}
	return nil, c.api.QuitGroup(ctx, adapter.GroupParams{GroupID: id})
}

func (c *Codec) guildID(ctx context.Context, params json.RawMessage) (model.ID, error) {
	p, err := decode[struct {
		GuildID string `json:"guild_id"`
	}](params)
	if err != nil {
		return model.ID{}, err
	}
	return c.resolve(ctx, p.GuildID)
}

func (c *Codec) getGuildInfo(ctx context.Context, params json.RawMessage) (any, error) {
	id, err := c.guildID(ctx, params)
	if err != nil {
		return nil, err
	}
	g, err := c.api.GetGuildInfo(ctx, adapter.GuildParams{GuildID: id})
	if err != nil {
		return nil, err
	}
	return map[string]any{"guild_id": g.ID.Str, "guild_name": g.Name}, nil
}

func (c *Codec) getGuildList(ctx context.Context, _ json.RawMessage) (any, error) {
	guilds, err := c.api.GetGuildList(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(guilds))
	for _, g := range guilds {
		out = append(out, map[string]any{"guild_id": g.ID.Str, "guild_name": g.Name})
	}
	return out, nil
}

func (c *Codec) leaveGuild(ctx context.Context, params json.RawMessage) (any, error) {
	id, err := c.guildID(ctx, params)
	if err != nil {
		return nil, err
	}
	return nil, c.api.QuitGuild(ctx, adapter.GuildParams{GuildID: id})
}

func (c *Codec) getChannelInfo(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := decode[struct {
		ChannelID string `json:"channel_id"`
	}](params)
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
	return map[string]any{"channel_id": ch.ID.Str, "channel_name": ch.Name}, nil
}

func (c *Codec) getChannelList(ctx context.Context, params json.RawMessage) (any, error) {
	id, err := c.guildID(ctx, params)
	if err != nil {
		return nil, err
	}
	channels, err := c.api.GetChannelList(ctx, adapter.GuildParams{GuildID: id})
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(channels))
	for _, ch := range channels {
		out = append(out, map[string]any{"channel_id": ch.ID.Str, "channel_name": ch.Name})
	}
	return out, nil
}

func (c *Codec) getGuildMemberInfo(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := decode[struct {
		GuildID string `json:"guild_id"`
		UserID  string `json:"user_id"`
	}](params)
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
	m, err := c.api.GetGuildMemberInfo(ctx, adapter.GuildUserParams{GuildID: guild, UserID: u})
	if err != nil {
		return nil, err
	}
	return user(&m.User), nil
}

func (c *Codec) getGuildMemberList(ctx context.Context, params json.RawMessage) (any, error) {
	id, err := c.guildID(ctx, params)
	if err != nil {
		return nil, err
	}
	members, err := c.api.GetGuildMemberList(ctx, adapter.GuildParams{GuildID: id})
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(members))
	for i := range members {
		out = append(out, user(&members[i].User))
	}
	return out, nil
}

func (c *Codec) uploadFile(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := decode[struct {
		Type string `json:"type"`
		Name string `json:"name"`
		URL  string `json:"url"`
	}](params)
	if err != nil {
		return nil, err
	}
	if p.Type != "url" {
		return nil, fmt.Errorf("%w: only url uploads are supported", errBadParam)
	}
	f, err := c.api.UploadMedia(ctx, adapter.UploadMediaParams{Type: "file", URL: p.URL, Name: p.Name})
	if err != nil {
		return nil, err
	}
	return map[string]any{"file_id": f.ID.Str}, nil
}

func (c *Codec) getFile(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := decode[struct {
		FileID string `json:"file_id"`
		Type   string `json:"type"`
	}](params)
	if err != nil {
		return nil, err
	}
	id, err := c.resolve(ctx, p.FileID)
	if err != nil {
		return nil, err
	}
	url, err := c.api.GetMediaURL(ctx, adapter.FileParams{FileID: id})
	if err != nil {
		return nil, err
	}
	return map[string]any{"name": id.Str, "url": url}, nil
}
