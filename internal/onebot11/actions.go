package onebot11

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nidhogg/crossgate/internal/adapter"
	"github.com/nidhogg/crossgate/internal/model"
)

// buildActions wires the v11 action names onto the adapter contract. The
// table is data: unknown action and missing capability stay structurally
// distinct failure modes.
func (c *Codec) buildActions() map[string]handler {
	return map[string]handler{
		"send_msg":                 c.sendMsg,
		"send_private_msg":         c.sendPrivateMsg,
		"send_group_msg":           c.sendGroupMsg,
		"delete_msg":               c.deleteMsg,
		"get_msg":                  c.getMsg,
		"get_forward_msg":          c.getForwardMsg,
		"mark_msg_as_read":         c.markMsgAsRead,
		"send_like":                c.sendLike,
		"get_login_info":           c.getLoginInfo,
		"get_stranger_info":        c.getStrangerInfo,
		"get_friend_list":          c.getFriendList,
		"set_friend_add_request":   c.setFriendAddRequest,
		"get_group_info":           c.getGroupInfo,
		"get_group_list":           c.getGroupList,
		"get_group_member_info":    c.getGroupMemberInfo,
		"get_group_member_list":    c.getGroupMemberList,
		"set_group_name":           c.setGroupName,
		"set_group_admin":          c.setGroupAdmin,
		"set_group_card":           c.setGroupCard,
		"set_group_special_title":  c.setGroupSpecialTitle,
		"set_group_kick":           c.setGroupKick,
		"set_group_ban":            c.setGroupBan,
		"set_group_whole_ban":      c.setGroupWholeBan,
		"set_group_leave":          c.setGroupLeave,
		"set_group_add_request":    c.setGroupAddRequest,
		"_send_group_notice":       c.sendGroupNotice,
		"_get_group_notice":        c.getGroupNotice,
		"set_essence_msg":          c.setEssenceMsg,
		"delete_essence_msg":       c.deleteEssenceMsg,
		"get_essence_msg_list":     c.getEssenceMsgList,
		"upload_group_file":        c.uploadGroupFile,
		"upload_private_file":      c.uploadPrivateFile,
		"delete_group_file":        c.deleteGroupFile,
		"create_group_file_folder": c.createGroupFileFolder,
		"get_group_root_files":     c.getGroupRootFiles,
		"get_record":               c.getRecord,
		"get_image":                c.getImage,
		"can_send_image":           c.canSendImage,
		"can_send_record":          c.canSendRecord,
		"get_status":               c.getStatus,
		"get_version_info":         c.getVersionInfo,
		"clean_cache":              c.cleanCache,
	}
}

type msgParams struct {
	MessageType string          `json:"message_type"`
	UserID      flexInt64       `json:"user_id"`
	GroupID     flexInt64       `json:"group_id"`
	Message     json.RawMessage `json:"message"`
}

// decodeMessage accepts the array segment form or a bare string.
func (c *Codec) decodeMessage(ctx context.Context, raw json.RawMessage) ([]model.Segment, error) {
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return []model.Segment{model.Text(text)}, nil
	}
	var segs []wireSegment
	if err := json.Unmarshal(raw, &segs); err != nil {
		return nil, errBadParams
	}
	return c.decodeSegments(ctx, segs)
}

func sendResult(r *adapter.SendMessageResult) any {
	return map[string]any{"message_id": r.MessageID.Num}
}

func (c *Codec) sendMsg(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := decode[msgParams](params)
	if err != nil {
		return nil, err
	}
	if p.MessageType == "private" || (p.MessageType == "" && p.UserID != 0) {
		return c.sendPrivateMsg(ctx, params)
	}
	return c.sendGroupMsg(ctx, params)
}

func (c *Codec) sendPrivateMsg(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := decode[msgParams](params)
	if err != nil {
		return nil, err
	}
	user, err := c.resolve(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	segs, err := c.decodeMessage(ctx, p.Message)
	if err != nil {
		return nil, err
	}
	res, err := c.api.SendPrivateMessage(ctx, user, segs)
	if err != nil {
		return nil, err
	}
	return sendResult(res), nil
}

func (c *Codec) sendGroupMsg(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := decode[msgParams](params)
	if err != nil {
		return nil, err
	}
	group, err := c.resolve(ctx, p.GroupID)
	if err != nil {
		return nil, err
	}
	segs, err := c.decodeMessage(ctx, p.Message)
	if err != nil {
		return nil, err
	}
	res, err := c.api.SendGroupMessage(ctx, group, segs)
	if err != nil {
		return nil, err
	}
	return sendResult(res), nil
}

type messageIDParams struct {
	MessageID flexInt64 `json:"message_id"`
}

func (c *Codec) messageParams(ctx context.Context, params json.RawMessage) (adapter.MessageParams, error) {
	p, err := decode[messageIDParams](params)
	if err != nil {
		return adapter.MessageParams{}, err
	}
	id, err := c.resolve(ctx, p.MessageID)
	if err != nil {
		return adapter.MessageParams{}, err
	}
	return adapter.MessageParams{MessageID: id}, nil
}

func (c *Codec) deleteMsg(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := c.messageParams(ctx, params)
	if err != nil {
		return nil, err
	}
	return nil, c.api.DeleteMessage(ctx, p)
}

func (c *Codec) getMsg(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := c.messageParams(ctx, params)
	if err != nil {
		return nil, err
	}
	msg, err := c.api.GetMessage(ctx, p)
	if err != nil {
		return nil, err
	}
	return c.storedMessage(msg), nil
}

func (c *Codec) storedMessage(m *model.StoredMessage) map[string]any {
	out := map[string]any{
		"message_id": m.MessageID.Num,
		"message":    c.encodeSegments(m.Segments),
		"time":       m.Time.Unix(),
		"sender": map[string]any{
			"user_id":  m.Sender.ID.Num,
			"nickname": m.Sender.Nickname,
		},
	}
	if m.Scene == model.SceneFriend {
		out["message_type"] = "private"
	} else {
		out["message_type"] = "group"
		out["group_id"] = m.SceneID.Num
	}
	return out
}

func (c *Codec) getForwardMsg(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := decode[struct {
		ID string `json:"id"`
	}](params)
	if err != nil {
		return nil, err
	}
	fid, err := c.ids.Resolve(ctx, c.platform, p.ID)
	if err != nil {
		return nil, err
	}
	msgs, err := c.api.GetForwardMessage(ctx, adapter.ForwardIDParams{ForwardID: fid})
	if err != nil {
		return nil, err
	}
	nodes := make([]map[string]any, 0, len(msgs))
	for i := range msgs {
		nodes = append(nodes, c.storedMessage(&msgs[i]))
	}
	return map[string]any{"messages": nodes}, nil
}

func (c *Codec) markMsgAsRead(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := c.messageParams(ctx, params)
	if err != nil {
		return nil, err
	}
	return nil, c.api.MarkMessageRead(ctx, p)
}

func (c *Codec) sendLike(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := decode[struct {
		UserID flexInt64 `json:"user_id"`
		Times  int       `json:"times"`
	}](params)
	if err != nil {
		return nil, err
	}
	user, err := c.resolve(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	if p.Times <= 0 {
		p.Times = 1
	}
	return nil, c.api.SendProfileLike(ctx, adapter.LikeParams{UserID: user, Times: p.Times})
}

func (c *Codec) getLoginInfo(ctx context.Context, _ json.RawMessage) (any, error) {
	u, err := c.api.GetLoginInfo(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{"user_id": u.ID.Num, "nickname": u.Nickname}, nil
}

func (c *Codec) getStrangerInfo(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := decode[struct {
		UserID flexInt64 `json:"user_id"`
	}](params)
	if err != nil {
		return nil, err
	}
	user, err := c.resolve(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	u, err := c.api.GetStrangerInfo(ctx, adapter.UserParams{UserID: user})
	if err != nil {
		return nil, err
	}
	return map[string]any{"user_id": u.ID.Num, "nickname": u.Nickname}, nil
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
			"nickname": f.Nickname,
			"remark":   f.Remark,
		})
	}
	return out, nil
}

type requestHandleParams struct {
	Flag    string `json:"flag"`
	Approve *bool  `json:"approve"`
	Remark  string `json:"remark"`
	Reason  string `json:"reason"`
}

func (p requestHandleParams) approve() bool {
	return p.Approve == nil || *p.Approve
}

func (c *Codec) setFriendAddRequest(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := decode[requestHandleParams](params)
	if err != nil {
		return nil, err
	}
	return nil, c.api.HandleFriendRequest(ctx, adapter.HandleRequestParams{
		Flag: p.Flag, Approve: p.approve(),
	})
}

func (c *Codec) setGroupAddRequest(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := decode[requestHandleParams](params)
	if err != nil {
		return nil, err
	}
	return nil, c.api.HandleGroupRequest(ctx, adapter.HandleRequestParams{
		Flag: p.Flag, Approve: p.approve(), Reason: p.Reason,
	})
}

type groupIDParams struct {
	GroupID flexInt64 `json:"group_id"`
}

func (c *Codec) groupParams(ctx context.Context, params json.RawMessage) (adapter.GroupParams, error) {
	p, err := decode[groupIDParams](params)
	if err != nil {
		return adapter.GroupParams{}, err
	}
	id, err := c.resolve(ctx, p.GroupID)
	if err != nil {
		return adapter.GroupParams{}, err
	}
	return adapter.GroupParams{GroupID: id}, nil
}

func groupInfo(g *model.GroupInfo) map[string]any {
	return map[string]any{
		"group_id":         g.ID.Num,
		"group_name":       g.Name,
		"member_count":     g.MemberCount,
		"max_member_count": g.MaxMembers,
	}
}

func (c *Codec) getGroupInfo(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := c.groupParams(ctx, params)
	if err != nil {
		return nil, err
	}
	g, err := c.api.GetGroupInfo(ctx, p)
	if err != nil {
		return nil, err
	}
	return groupInfo(g), nil
}

func (c *Codec) getGroupList(ctx context.Context, _ json.RawMessage) (any, error) {
	groups, err := c.api.GetGroupList(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(groups))
	for i := range groups {
		out = append(out, groupInfo(&groups[i]))
	}
	return out, nil
}

type groupUserParams struct {
	GroupID flexInt64 `json:"group_id"`
	UserID  flexInt64 `json:"user_id"`
}

func (c *Codec) groupUser(ctx context.Context, params json.RawMessage) (adapter.GroupUserParams, error) {
	p, err := decode[groupUserParams](params)
	if err != nil {
		return adapter.GroupUserParams{}, err
	}
	group, err := c.resolve(ctx, p.GroupID)
	if err != nil {
		return adapter.GroupUserParams{}, err
	}
	user, err := c.resolve(ctx, p.UserID)
	if err != nil {
		return adapter.GroupUserParams{}, err
	}
	return adapter.GroupUserParams{GroupID: group, UserID: user}, nil
}

func groupMember(m *model.GroupMember) map[string]any {
	return map[string]any{
		"group_id": m.GroupID.Num,
		"user_id":  m.ID.Num,
		"nickname": m.Nickname,
		"card":     m.Card,
		"title":    m.Title,
		"role":     string(m.Role),
	}
}

func (c *Codec) getGroupMemberInfo(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := c.groupUser(ctx, params)
	if err != nil {
		return nil, err
	}
	m, err := c.api.GetGroupMemberInfo(ctx, p)
	if err != nil {
		return nil, err
	}
	return groupMember(m), nil
}

func (c *Codec) getGroupMemberList(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := c.groupParams(ctx, params)
	if err != nil {
		return nil, err
	}
	members, err := c.api.GetGroupMemberList(ctx, p)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(members))
	for i := range members {
		out = append(out, groupMember(&members[i]))
	}
	return out, nil
}

func (c *Codec) setGroupName(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := decode[struct {
		GroupID   flexInt64 `json:"group_id"`
		GroupName string    `json:"group_name"`
	}](params)
	if err != nil {
		return nil, err
	}
	group, err := c.resolve(ctx, p.GroupID)
	if err != nil {
		return nil, err
	}
	return nil, c.api.SetGroupName(ctx, adapter.GroupNameParams{GroupID: group, Name: p.GroupName})
}

func (c *Codec) setGroupAdmin(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := decode[struct {
		groupUserParams
		Enable *bool `json:"enable"`
	}](params)
	if err != nil {
		return nil, err
	}
	gu, err := c.groupUser(ctx, params)
	if err != nil {
		return nil, err
	}
	return nil, c.api.SetGroupAdmin(ctx, adapter.GroupAdminParams{
		GroupID: gu.GroupID, UserID: gu.UserID,
		Enable: p.Enable == nil || *p.Enable,
	})
}

func (c *Codec) setGroupCard(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := decode[struct {
		Card string `json:"card"`
	}](params)
	if err != nil {
		return nil, err
	}
	gu, err := c.groupUser(ctx, params)
	if err != nil {
		return nil, err
	}
	return nil, c.api.SetGroupMemberCard(ctx, adapter.GroupCardParams{
		GroupID: gu.GroupID, UserID: gu.UserID, Card: p.Card,
	})
}

func (c *Codec) setGroupSpecialTitle(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := decode[struct {
		SpecialTitle string `json:"special_title"`
	}](params)
	if err != nil {
		return nil, err
	}
	gu, err := c.groupUser(ctx, params)
	if err != nil {
		return nil, err
	}
	return nil, c.api.SetGroupMemberTitle(ctx, adapter.GroupTitleParams{
		GroupID: gu.GroupID, UserID: gu.UserID, Title: p.SpecialTitle,
	})
}

func (c *Codec) setGroupKick(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := decode[struct {
		RejectAddRequest bool `json:"reject_add_request"`
	}](params)
	if err != nil {
		return nil, err
	}
	gu, err := c.groupUser(ctx, params)
	if err != nil {
		return nil, err
	}
	return nil, c.api.KickGroupMember(ctx, adapter.KickParams{
		GroupID: gu.GroupID, UserID: gu.UserID, RejectRejoin: p.RejectAddRequest,
	})
}

func (c *Codec) setGroupBan(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := decode[struct {
		Duration int64 `json:"duration"`
	}](params)
	if err != nil {
		return nil, err
	}
	gu, err := c.groupUser(ctx, params)
	if err != nil {
		return nil, err
	}
	return nil, c.api.MuteGroupMember(ctx, adapter.MuteParams{
		GroupID: gu.GroupID, UserID: gu.UserID,
		Duration: time.Duration(p.Duration) * time.Second,
	})
}

func (c *Codec) setGroupWholeBan(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := decode[struct {
		GroupID flexInt64 `json:"group_id"`
		Enable  *bool     `json:"enable"`
	}](params)
	if err != nil {
		return nil, err
	}
	group, err := c.resolve(ctx, p.GroupID)
	if err != nil {
		return nil, err
	}
	return nil, c.api.MuteGroup(ctx, adapter.MuteAllParams{
		GroupID: group, Enable: p.Enable == nil || *p.Enable,
	})
}

func (c *Codec) setGroupLeave(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := c.groupParams(ctx, params)
	if err != nil {
		return nil, err
	}
	return nil, c.api.QuitGroup(ctx, p)
}

func (c *Codec) sendGroupNotice(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := decode[struct {
		GroupID flexInt64 `json:"group_id"`
		Content string    `json:"content"`
		Image   string    `json:"image"`
	}](params)
	if err != nil {
		return nil, err
	}
	group, err := c.resolve(ctx, p.GroupID)
	if err != nil {
		return nil, err
	}
	return nil, c.api.SendGroupAnnouncement(ctx, adapter.AnnouncementParams{
		GroupID: group, Content: p.Content, ImageURL: p.Image,
	})
}

func (c *Codec) getGroupNotice(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := c.groupParams(ctx, params)
	if err != nil {
		return nil, err
	}
	items, err := c.api.GetGroupAnnouncements(ctx, p)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(items))
	for _, a := range items {
		out = append(out, map[string]any{
			"notice_id":    a.ID.Num,
			"sender_id":    a.SenderID.Num,
			"publish_time": a.PostedAt.Unix(),
			"message":      map[string]any{"text": a.Content},
		})
	}
	return out, nil
}

func (c *Codec) setEssenceMsg(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := c.messageParams(ctx, params)
	if err != nil {
		return nil, err
	}
	return nil, c.api.SetEssenceMessage(ctx, p)
}

func (c *Codec) deleteEssenceMsg(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := c.messageParams(ctx, params)
	if err != nil {
		return nil, err
	}
	return nil, c.api.DeleteEssenceMessage(ctx, p)
}

func (c *Codec) getEssenceMsgList(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := c.groupParams(ctx, params)
	if err != nil {
		return nil, err
	}
	msgs, err := c.api.GetEssenceMessages(ctx, p)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(msgs))
	for i := range msgs {
		out = append(out, c.storedMessage(&msgs[i]))
	}
	return out, nil
}

func (c *Codec) uploadGroupFile(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := decode[struct {
		GroupID flexInt64 `json:"group_id"`
		File    string    `json:"file"`
		Name    string    `json:"name"`
		Folder  string    `json:"folder"`
	}](params)
	if err != nil {
		return nil, err
	}
	group, err := c.resolve(ctx, p.GroupID)
	if err != nil {
		return nil, err
	}
	up := adapter.UploadGroupFileParams{GroupID: group, URL: p.File, Name: p.Name}
	if p.Folder != "" {
		folder, err := c.ids.Resolve(ctx, c.platform, p.Folder)
		if err != nil {
			return nil, err
		}
		up.FolderID = folder
	}
	f, err := c.api.UploadGroupFile(ctx, up)
	if err != nil {
		return nil, err
	}
	return map[string]any{"file_id": f.ID.Str}, nil
}

func (c *Codec) uploadPrivateFile(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := decode[struct {
		UserID flexInt64 `json:"user_id"`
		File   string    `json:"file"`
		Name   string    `json:"name"`
	}](params)
	if err != nil {
		return nil, err
	}
	user, err := c.resolve(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	f, err := c.api.UploadPrivateFile(ctx, adapter.UploadPrivateFileParams{
		UserID: user, URL: p.File, Name: p.Name,
	})
	if err != nil {
		return nil, err
	}
	return map[string]any{"file_id": f.ID.Str}, nil
}

func (c *Codec) deleteGroupFile(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := decode[struct {
		GroupID flexInt64 `json:"group_id"`
		FileID  string    `json:"file_id"`
	}](params)
	if err != nil {
		return nil, err
	}
	group, err := c.resolve(ctx, p.GroupID)
	if err != nil {
		return nil, err
	}
	file, err := c.ids.Resolve(ctx, c.platform, p.FileID)
	if err != nil {
		return nil, err
	}
	return nil, c.api.DeleteGroupFile(ctx, adapter.FileParams{GroupID: group, FileID: file})
}

func (c *Codec) createGroupFileFolder(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := decode[struct {
		GroupID flexInt64 `json:"group_id"`
		Name    string    `json:"name"`
	}](params)
	if err != nil {
		return nil, err
	}
	group, err := c.resolve(ctx, p.GroupID)
	if err != nil {
		return nil, err
	}
	f, err := c.api.CreateGroupFolder(ctx, adapter.FolderParams{GroupID: group, Name: p.Name})
	if err != nil {
		return nil, err
	}
	return map[string]any{"folder_id": f.ID.Str}, nil
}

func (c *Codec) getGroupRootFiles(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := c.groupParams(ctx, params)
	if err != nil {
		return nil, err
	}
	files, err := c.api.GetGroupFiles(ctx, adapter.GroupFilesParams{GroupID: p.GroupID})
	if err != nil {
		return nil, err
	}
	var fs, folders []map[string]any
	for _, f := range files {
		entry := map[string]any{
			"file_id": f.ID.Str, "file_name": f.Name, "file_size": f.Size,
		}
		if f.IsFolder {
			folders = append(folders, map[string]any{
				"folder_id": f.ID.Str, "folder_name": f.Name,
			})
			continue
		}
		fs = append(fs, entry)
	}
	return map[string]any{"files": fs, "folders": folders}, nil
}

func (c *Codec) getRecord(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := decode[struct {
		File      string `json:"file"`
		OutFormat string `json:"out_format"`
	}](params)
	if err != nil {
		return nil, err
	}
	file, err := c.ids.Resolve(ctx, c.platform, p.File)
	if err != nil {
		return nil, err
	}
	f, err := c.api.GetRecord(ctx, adapter.RecordParams{FileID: file, Format: p.OutFormat})
	if err != nil {
		return nil, err
	}
	return map[string]any{"file": f.URL}, nil
}

func (c *Codec) getImage(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := decode[struct {
		File string `json:"file"`
	}](params)
	if err != nil {
		return nil, err
	}
	file, err := c.ids.Resolve(ctx, c.platform, p.File)
	if err != nil {
		return nil, err
	}
	f, err := c.api.GetImage(ctx, adapter.FileParams{FileID: file})
	if err != nil {
		return nil, err
	}
	return map[string]any{"file": f.URL}, nil
}

func (c *Codec) canSendImage(ctx context.Context, _ json.RawMessage) (any, error) {
	yes, err := c.api.CanSendImage(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{"yes": yes}, nil
}

func (c *Codec) canSendRecord(ctx context.Context, _ json.RawMessage) (any, error) {
	yes, err := c.api.CanSendRecord(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{"yes": yes}, nil
}

func (c *Codec) getStatus(ctx context.Context, _ json.RawMessage) (any, error) {
	st, err := c.api.GetStatus(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{"online": st.Online, "good": st.Good}, nil
}

func (c *Codec) getVersionInfo(ctx context.Context, _ json.RawMessage) (any, error) {
	v, err := c.api.GetVersion(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"app_name":         v.AppName,
		"app_version":      v.AppVersion,
		"protocol_version": "v11",
	}, nil
}

func (c *Codec) cleanCache(ctx context.Context, _ json.RawMessage) (any, error) {
	return nil, c.api.CleanCache(ctx)
}
