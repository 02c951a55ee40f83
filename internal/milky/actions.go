package milky

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nidhogg/crossgate/internal/adapter"
	"github.com/nidhogg/crossgate/internal/model"
)

func (c *Codec) buildActions() map[string]handler {
	return map[string]handler{
		"send_private_message":   c.sendPrivateMessage,
		"send_group_message":     c.sendGroupMessage,
		"recall_private_message": c.recallPrivateMessage,
		"recall_group_message":   c.recallGroupMessage,
		"get_message":            c.getMessage,
		"get_history_messages":   c.getHistoryMessages,
		"get_login_info":         c.getLoginInfo,
		"get_user_profile":       c.getUserProfile,
		"get_friend_list":        c.getFriendList,
		"get_friend_info":        c.getFriendInfo,
		"send_friend_nudge":      c.sendFriendNudge,
		"get_group_list":         c.getGroupList,
		"get_group_info":         c.getGroupInfo,
		"get_group_member_list":  c.getGroupMemberList,
		"get_group_member_info":  c.getGroupMemberInfo,
		"set_group_name":         c.setGroupName,
		"set_group_member_card":  c.setGroupMemberCard,
		"set_group_member_mute":  c.setGroupMemberMute,
		"set_group_whole_mute":   c.setGroupWholeMute,
		"kick_group_member":      c.kickGroupMember,
		"quit_group":             c.quitGroup,
		"send_group_nudge":       c.sendGroupNudge,
		"accept_request":         c.acceptRequest,
		"reject_request":         c.rejectRequest,
		"upload_group_file":      c.uploadGroupFile,
		"upload_private_file":    c.uploadPrivateFile,
		"get_group_files":        c.getGroupFiles,
		"delete_group_file":      c.deleteGroupFile,
		"get_resource_temp_url":  c.getResourceTempURL,
	}
}

type peerMessageParams struct {
	UserID  int64         `json:"user_id"`
	GroupID int64         `json:"group_id"`
	Message []wireSegment `json:"message"`
}

func (c *Codec) sendPrivateMessage(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := decode[peerMessageParams](params)
	if err != nil {
		return nil, err
	}
	user, err := c.resolveNum(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	segs, err := c.decodeSegments(ctx, p.Message)
	if err != nil {
		return nil, err
	}
	res, err := c.api.SendPrivateMessage(ctx, user, segs)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"message_seq": res.MessageID.Num,
		"time":        res.Time.Unix(),
	}, nil
}

func (c *Codec) sendGroupMessage(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := decode[peerMessageParams](params)
	if err != nil {
		return nil, err
	}
	group, err := c.resolveNum(ctx, p.GroupID)
	if err != nil {
		return nil, err
	}
	segs, err := c.decodeSegments(ctx, p.Message)
	if err != nil {
		return nil, err
	}
	res, err := c.api.SendGroupMessage(ctx, group, segs)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"message_seq": res.MessageID.Num,
		"time":        res.Time.Unix(),
	}, nil
}

type recallParams struct {
	UserID     int64 `json:"user_id"`
	GroupID    int64 `json:"group_id"`
	MessageSeq int64 `json:"message_seq"`
}

func (c *Codec) recallPrivateMessage(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := decode[recallParams](params)
	if err != nil {
		return nil, err
	}
	msg, err := c.resolveNum(ctx, p.MessageSeq)
	if err != nil {
		return nil, err
	}
	return nil, c.api.DeleteMessage(ctx, adapter.MessageParams{MessageID: msg})
}

func (c *Codec) recallGroupMessage(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := decode[recallParams](params)
	if err != nil {
		return nil, err
	}
	msg, err := c.resolveNum(ctx, p.MessageSeq)
	if err != nil {
		return nil, err
	}
	group, err := c.resolveNum(ctx, p.GroupID)
	if err != nil {
		return nil, err
	}
	return nil, c.api.DeleteMessage(ctx, adapter.MessageParams{MessageID: msg, GroupID: group})
}

func (c *Codec) getMessage(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := decode[recallParams](params)
	if err != nil {
		return nil, err
	}
	msg, err := c.resolveNum(ctx, p.MessageSeq)
	if err != nil {
		return nil, err
	}
	stored, err := c.api.GetMessage(ctx, adapter.MessageParams{MessageID: msg})
	if err != nil {
		return nil, err
	}
	return c.storedMessage(stored), nil
}

type historyParams struct {
	MessageScene string `json:"message_scene"`
	PeerID       int64  `json:"peer_id"`
	StartSeq     int64  `json:"start_message_seq"`
	Limit        int    `json:"limit"`
}

func (c *Codec) getHistoryMessages(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := decode[historyParams](params)
	if err != nil {
		return nil, err
	}
	peer, err := c.resolveNum(ctx, p.PeerID)
	if err != nil {
		return nil, err
	}
	hp := adapter.HistoryParams{SceneID: peer, Limit: p.Limit}
	if p.MessageScene == "group" {
		hp.Scene = model.SceneGroup
	} else {
		hp.Scene = model.SceneFriend
	}
	if p.StartSeq != 0 {
		before, err := c.resolveNum(ctx, p.StartSeq)
		if err != nil {
			return nil, err
		}
		hp.Before = before
	}
	msgs, err := c.api.GetMessageHistory(ctx, hp)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(msgs))
	for i := range msgs {
		out = append(out, c.storedMessage(&msgs[i]))
	}
	return map[string]any{"messages": out}, nil
}

func (c *Codec) storedMessage(m *model.StoredMessage) map[string]any {
	scene := "friend"
	if m.Scene == model.SceneGroup || m.Scene == model.SceneChannel {
		scene = "group"
	}
	return map[string]any{
		"message_seq":   m.MessageID.Num,
		"message_scene": scene,
		"peer_id":       m.SceneID.Num,
		"sender_id":     m.Sender.ID.Num,
		"time":          m.Time.Unix(),
		"segments":      encodeSegments(m.Segments),
	}
}

func (c *Codec) getLoginInfo(ctx context.Context, _ json.RawMessage) (any, error) {
	u, err := c.api.GetLoginInfo(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{"uin": u.ID.Num, "nickname": u.Name}, nil
}

type userParams struct {
	UserID int64 `json:"user_id"`
}

func (c *Codec) getUserProfile(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := decode[userParams](params)
	if err != nil {
		return nil, err
	}
	user, err := c.resolveNum(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	u, err := c.api.GetUserInfo(ctx, adapter.UserParams{UserID: user})
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"user_id":  u.ID.Num,
		"nickname": u.Name,
		"avatar":   u.Avatar,
	}, nil
}

func (c *Codec) getFriendList(ctx context.Context, _ json.RawMessage) (any, error) {
	friends, err := c.api.GetFriendList(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(friends))
	for _, f := range friends {
		out = append(out, map[string]any{
			"user_id":  f.ID.Num,
			"nickname": f.Name,
			"remark":   f.Remark,
			"category": f.Category,
		})
	}
	return map[string]any{"friends": out}, nil
}

func (c *Codec) getFriendInfo(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := decode[userParams](params)
	if err != nil {
		return nil, err
	}
	user, err := c.resolveNum(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	f, err := c.api.GetFriendInfo(ctx, adapter.UserParams{UserID: user})
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"user_id":  f.ID.Num,
		"nickname": f.Name,
		"remark":   f.Remark,
	}, nil
}

func (c *Codec) sendFriendNudge(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := decode[userParams](params)
	if err != nil {
		return nil, err
	}
	user, err := c.resolveNum(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	return nil, c.api.SendFriendPoke(ctx, adapter.UserParams{UserID: user})
}

type groupParams struct {
	GroupID int64 `json:"group_id"`
}

type groupUserParams struct {
	GroupID int64 `json:"group_id"`
	UserID  int64 `json:"user_id"`
}

func (c *Codec) group(ctx context.Context, params json.RawMessage) (model.ID, error) {
	p, err := decode[groupParams](params)
	if err != nil {
		return model.ID{}, err
	}
	return c.resolveNum(ctx, p.GroupID)
}

func (c *Codec) groupUser(ctx context.Context, params json.RawMessage) (model.ID, model.ID, error) {
	p, err := decode[groupUserParams](params)
	if err != nil {
		return model.ID{}, model.ID{}, err
	}
	group, err := c.resolveNum(ctx, p.GroupID)
	if err != nil {
		return model.ID{}, model.ID{}, err
	}
	user, err := c.resolveNum(ctx, p.UserID)
	if err != nil {
		return model.ID{}, model.ID{}, err
	}
	return group, user, nil
}

func (c *Codec) getGroupList(ctx context.Context, _ json.RawMessage) (any, error) {
	groups, err := c.api.GetGroupList(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(groups))
	for _, g := range groups {
		out = append(out, map[string]any{
			"group_id":     g.ID.Num,
			"name":         g.Name,
			"member_count": g.MemberCount,
			"max_members":  g.MaxMembers,
		})
	}
	return map[string]any{"groups": out}, nil
}

func (c *Codec) getGroupInfo(ctx context.Context, params json.RawMessage) (any, error) {
	group, err := c.group(ctx, params)
	if err != nil {
		return nil, err
	}
	g, err := c.api.GetGroupInfo(ctx, adapter.GroupParams{GroupID: group})
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"group_id":     g.ID.Num,
		"name":         g.Name,
		"member_count": g.MemberCount,
		"max_members":  g.MaxMembers,
	}, nil
}

func (c *Codec) getGroupMemberList(ctx context.Context, params json.RawMessage) (any, error) {
	group, err := c.group(ctx, params)
	if err != nil {
		return nil, err
	}
	members, err := c.api.GetGroupMemberList(ctx, adapter.GroupParams{GroupID: group})
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(members))
	for i := range members {
		out = append(out, groupMember(&members[i]))
	}
	return map[string]any{"members": out}, nil
}

func (c *Codec) getGroupMemberInfo(ctx context.Context, params json.RawMessage) (any, error) {
	group, user, err := c.groupUser(ctx, params)
	if err != nil {
		return nil, err
	}
	m, err := c.api.GetGroupMemberInfo(ctx, adapter.GroupUserParams{GroupID: group, UserID: user})
	if err != nil {
		return nil, err
	}
	return groupMember(m), nil
}

func groupMember(m *model.GroupMember) map[string]any {
	return map[string]any{
		"user_id":  m.ID.Num,
		"group_id": m.GroupID.Num,
		"nickname": m.Name,
		"card":     m.Card,
		"title":    m.Title,
		"role":     string(m.Role),
	}
}

func (c *Codec) setGroupName(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := decode[struct {
		GroupID int64  `json:"group_id"`
		Name    string `json:"name"`
	}](params)
	if err != nil {
		return nil, err
	}
	group, err := c.resolveNum(ctx, p.GroupID)
	if err != nil {
		return nil, err
	}
	return nil, c.api.SetGroupName(ctx, adapter.GroupNameParams{GroupID: group, Name: p.Name})
}

func (c *Codec) setGroupMemberCard(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := decode[struct {
		GroupID int64  `json:"group_id"`
		UserID  int64  `json:"user_id"`
		Card    string `json:"card"`
	}](params)
	if err != nil {
		return nil, err
	}
	group, err := c.resolveNum(ctx, p.GroupID)
	if err != nil {
		return nil, err
	}
	user, err := c.resolveNum(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	return nil, c.api.SetGroupMemberCard(ctx, adapter.GroupCardParams{GroupID: group, UserID: user, Card: p.Card})
}

func (c *Codec) setGroupMemberMute(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := decode[struct {
		GroupID  int64 `json:"group_id"`
		UserID   int64 `json:"user_id"`
		Duration int64 `json:"duration"`
	}](params)
	if err != nil {
		return nil, err
	}
	group, err := c.resolveNum(ctx, p.GroupID)
	if err != nil {
		return nil, err
	}
	user, err := c.resolveNum(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	return nil, c.api.MuteGroupMember(ctx, adapter.MuteParams{
		GroupID:  group,
		UserID:   user,
		Duration: time.Duration(p.Duration) * time.Second,
	})
}

func (c *Codec) setGroupWholeMute(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := decode[struct {
		GroupID int64 `json:"group_id"`
		IsMute  bool  `json:"is_mute"`
	}](params)
	if err != nil {
		return nil, err
	}
	group, err := c.resolveNum(ctx, p.GroupID)
	if err != nil {
		return nil, err
	}
	return nil, c.api.MuteGroup(ctx, adapter.MuteAllParams{GroupID: group, Enable: p.IsMute})
}

func (c *Codec) kickGroupMember(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := decode[struct {
		GroupID       int64 `json:"group_id"`
		UserID        int64 `json:"user_id"`
		RejectRequest bool  `json:"reject_add_request"`
	}](params)
	if err != nil {
		return nil, err
	}
	group, err := c.resolveNum(ctx, p.GroupID)
	if err != nil {
		return nil, err
	}
	user, err := c.resolveNum(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	return nil, c.api.KickGroupMember(ctx, adapter.KickParams{
		GroupID:      group,
		UserID:       user,
		RejectRejoin: p.RejectRequest,
	})
}

func (c *Codec) quitGroup(ctx context.Context, params json.RawMessage) (any, error) {
	group, err := c.group(ctx, params)
	if err != nil {
		return nil, err
	}
	return nil, c.api.QuitGroup(ctx, adapter.GroupParams{GroupID: group})
}

func (c *Codec) sendGroupNudge(ctx context.Context, params json.RawMessage) (any, error) {
	group, user, err := c.groupUser(ctx, params)
	if err != nil {
		return nil, err
	}
	return nil, c.api.SendGroupPoke(ctx, adapter.GroupUserParams{GroupID: group, UserID: user})
}

type requestDecisionParams struct {
	RequestID string `json:"request_id"`
	IsGroup   bool   `json:"is_group"`
	Reason    string `json:"reason"`
}

func (c *Codec) acceptRequest(ctx context.Context, params json.RawMessage) (any, error) {
	return c.handleRequest(ctx, params, true)
}

func (c *Codec) rejectRequest(ctx context.Context, params json.RawMessage) (any, error) {
	return c.handleRequest(ctx, params, false)
}

func (c *Codec) handleRequest(ctx context.Context, params json.RawMessage, approve bool) (any, error) {
	p, err := decode[requestDecisionParams](params)
	if err != nil {
		return nil, err
	}
	hp := adapter.HandleRequestParams{Flag: p.RequestID, Approve: approve, Reason: p.Reason}
	if p.IsGroup {
		return nil, c.api.HandleGroupRequest(ctx, hp)
	}
	return nil, c.api.HandleFriendRequest(ctx, hp)
}

func (c *Codec) uploadGroupFile(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := decode[struct {
		GroupID  int64  `json:"group_id"`
		FileURI  string `json:"file_uri"`
		FileName string `json:"file_name"`
	}](params)
	if err != nil {
		return nil, err
	}
	group, err := c.resolveNum(ctx, p.GroupID)
	if err != nil {
		return nil, err
	}
	info, err := c.api.UploadGroupFile(ctx, adapter.UploadGroupFileParams{
		GroupID: group,
		Name:    p.FileName,
		URL:     p.FileURI,
	})
	if err != nil {
		return nil, err
	}
	return map[string]any{"file_id": info.ID.Str}, nil
}

func (c *Codec) uploadPrivateFile(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := decode[struct {
		UserID   int64  `json:"user_id"`
		FileURI  string `json:"file_uri"`
		FileName string `json:"file_name"`
	}](params)
	if err != nil {
		return nil, err
	}
	user, err := c.resolveNum(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	info, err := c.api.UploadPrivateFile(ctx, adapter.UploadPrivateFileParams{
		UserID: user,
		Name:   p.FileName,
		URL:    p.FileURI,
	})
	if err != nil {
		return nil, err
	}
	return map[string]any{"file_id": info.ID.Str}, nil
}

func (c *Codec) getGroupFiles(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := decode[struct {
		GroupID  int64  `json:"group_id"`
		FolderID string `json:"parent_folder_id"`
	}](params)
	if err != nil {
		return nil, err
	}
	group, err := c.resolveNum(ctx, p.GroupID)
	if err != nil {
		return nil, err
	}
	fp := adapter.GroupFilesParams{GroupID: group}
	if p.FolderID != "" {
		folder, err := c.ids.Resolve(ctx, c.platform, p.FolderID)
		if err != nil {
			return nil, err
		}
		fp.FolderID = folder
	}
	files, err := c.api.GetGroupFiles(ctx, fp)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(files))
	for _, f := range files {
		out = append(out, map[string]any{
			"file_id":   f.ID.Str,
			"file_name": f.Name,
			"file_size": f.Size,
			"is_folder": f.IsFolder,
		})
	}
	return map[string]any{"files": out}, nil
}

func (c *Codec) deleteGroupFile(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := decode[struct {
		GroupID int64  `json:"group_id"`
		FileID  string `json:"file_id"`
	}](params)
	if err != nil {
		return nil, err
	}
	group, err := c.resolveNum(ctx, p.GroupID)
	if err != nil {
		return nil, err
	}
	file, err := c.ids.Resolve(ctx, c.platform, p.FileID)
	if err != nil {
		return nil, err
	}
	return nil, c.api.DeleteGroupFile(ctx, adapter.FileParams{FileID: file, GroupID: group})
}

func (c *Codec) getResourceTempURL(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := decode[struct {
		ResourceID string `json:"resource_id"`
	}](params)
	if err != nil {
		return nil, err
	}
	file, err := c.ids.Resolve(ctx, c.platform, p.ResourceID)
	if err != nil {
		return nil, err
	}
	url, err := c.api.GetMediaURL(ctx, adapter.FileParams{FileID: file})
	if err != nil {
		return nil, err
	}
	return map[string]any{"url": url}, nil
}
