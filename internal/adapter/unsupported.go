package adapter

import (
	"context"
	"errors"
	"fmt"

	"github.com/nidhogg/crossgate/internal/model"
)

// CapabilityError reports that a contract operation has no implementation
// on a platform. It is a value, not a panic: engines translate it into
// their protocol's failure envelope.
type CapabilityError struct {
	Platform string
	Op       string
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("%s is not implemented on platform %s", e.Op, e.Platform)
}

// IsUnsupported reports whether err is (or wraps) a CapabilityError.
func IsUnsupported(err error) bool {
	var ce *CapabilityError
	return errors.As(err, &ce)
}

// Unsupported implements every contract operation by returning a
// CapabilityError carrying the platform and operation name. Concrete
// adapters embed it and override the operations their platform performs.
type Unsupported struct {
	Platform string
}

func (u Unsupported) unsupported(op string) *CapabilityError {
	return &CapabilityError{Platform: u.Platform, Op: op}
}

func (u Unsupported) SendMessage(context.Context, SendMessageParams) (*SendMessageResult, error) {
	return nil, u.unsupported("SendMessage")
}

func (u Unsupported) SendPrivateMessage(context.Context, model.ID, []model.Segment) (*SendMessageResult, error) {
	return nil, u.unsupported("SendPrivateMessage")
}

func (u Unsupported) SendGroupMessage(context.Context, model.ID, []model.Segment) (*SendMessageResult, error) {
	return nil, u.unsupported("SendGroupMessage")
}

func (u Unsupported) DeleteMessage(context.Context, MessageParams) error {
	return u.unsupported("DeleteMessage")
}

func (u Unsupported) GetMessage(context.Context, MessageParams) (*model.StoredMessage, error) {
	return nil, u.unsupported("GetMessage")
}

func (u Unsupported) GetMessageHistory(context.Context, HistoryParams) ([]model.StoredMessage, error) {
	return nil, u.unsupported("GetMessageHistory")
}

func (u Unsupported) SendForwardMessage(context.Context, ForwardParams) (*SendMessageResult, error) {
	return nil, u.unsupported("SendForwardMessage")
}

func (u Unsupported) GetForwardMessage(context.Context, ForwardIDParams) ([]model.StoredMessage, error) {
	return nil, u.unsupported("GetForwardMessage")
}

func (u Unsupported) MarkMessageRead(context.Context, MessageParams) error {
	return u.unsupported("MarkMessageRead")
}

func (u Unsupported) GetLoginInfo(context.Context) (*model.User, error) {
	return nil, u.unsupported("GetLoginInfo")
}

func (u Unsupported) GetUserInfo(context.Context, UserParams) (*model.User, error) {
	return nil, u.unsupported("GetUserInfo")
}

func (u Unsupported) GetStrangerInfo(context.Context, UserParams) (*model.User, error) {
	return nil, u.unsupported("GetStrangerInfo")
}

func (u Unsupported) SetNickname(context.Context, string) error {
	return u.unsupported("SetNickname")
}

func (u Unsupported) SetAvatar(context.Context, string) error {
	return u.unsupported("SetAvatar")
}

func (u Unsupported) SendProfileLike(context.Context, LikeParams) error {
	return u.unsupported("SendProfileLike")
}

func (u Unsupported) GetFriendList(context.Context) ([]model.Friend, error) {
	return nil, u.unsupported("GetFriendList")
}

func (u Unsupported) GetFriendInfo(context.Context, UserParams) (*model.Friend, error) {
	return nil, u.unsupported("GetFriendInfo")
}

func (u Unsupported) DeleteFriend(context.Context, UserParams) error {
	return u.unsupported("DeleteFriend")
}

func (u Unsupported) SetFriendRemark(context.Context, RemarkParams) error {
	return u.unsupported("SetFriendRemark")
}

func (u Unsupported) SendFriendPoke(context.Context, UserParams) error {
	return u.unsupported("SendFriendPoke")
}

func (u Unsupported) GetFriendRequests(context.Context) ([]PendingRequest, error) {
	return nil, u.unsupported("GetFriendRequests")
}

func (u Unsupported) HandleFriendRequest(context.Context, HandleRequestParams) error {
	return u.unsupported("HandleFriendRequest")
}

func (u Unsupported) GetGroupInfo(context.Context, GroupParams) (*model.GroupInfo, error) {
	return nil, u.unsupported("GetGroupInfo")
}

func (u Unsupported) GetGroupList(context.Context) ([]model.GroupInfo, error) {
	return nil, u.unsupported("GetGroupList")
}

func (u Unsupported) GetGroupMemberInfo(context.Context, GroupUserParams) (*model.GroupMember, error) {
	return nil, u.unsupported("GetGroupMemberInfo")
}

func (u Unsupported) GetGroupMemberList(context.Context, GroupParams) ([]model.GroupMember, error) {
	return nil, u.unsupported("GetGroupMemberList")
}

func (u Unsupported) SetGroupName(context.Context, GroupNameParams) error {
	return u.unsupported("SetGroupName")
}

func (u Unsupported) SetGroupAvatar(context.Context, GroupAvatarParams) error {
	return u.unsupported("SetGroupAvatar")
}

func (u Unsupported) SetGroupAdmin(context.Context, GroupAdminParams) error {
	return u.unsupported("SetGroupAdmin")
}

func (u Unsupported) SetGroupMemberCard(context.Context, GroupCardParams) error {
	return u.unsupported("SetGroupMemberCard")
}

func (u Unsupported) SetGroupMemberTitle(context.Context, GroupTitleParams) error {
	return u.unsupported("SetGroupMemberTitle")
}

func (u Unsupported) KickGroupMember(context.Context, KickParams) error {
	return u.unsupported("KickGroupMember")
}

func (u Unsupported) MuteGroupMember(context.Context, MuteParams) error {
	return u.unsupported("MuteGroupMember")
}

func (u Unsupported) MuteGroup(context.Context, MuteAllParams) error {
	return u.unsupported("MuteGroup")
}

func (u Unsupported) QuitGroup(context.Context, GroupParams) error {
	return u.unsupported("QuitGroup")
}

func (u Unsupported) SendGroupPoke(context.Context, GroupUserParams) error {
	return u.unsupported("SendGroupPoke")
}

func (u Unsupported) GetGroupRequests(context.Context) ([]PendingRequest, error) {
	return nil, u.unsupported("GetGroupRequests")
}

func (u Unsupported) HandleGroupRequest(context.Context, HandleRequestParams) error {
	return u.unsupported("HandleGroupRequest")
}

func (u Unsupported) SendGroupAnnouncement(context.Context, AnnouncementParams) error {
	return u.unsupported("SendGroupAnnouncement")
}

func (u Unsupported) GetGroupAnnouncements(context.Context, GroupParams) ([]model.Announcement, error) {
	return nil, u.unsupported("GetGroupAnnouncements")
}

func (u Unsupported) DeleteGroupAnnouncement(context.Context, AnnouncementIDParams) error {
	return u.unsupported("DeleteGroupAnnouncement")
}

func (u Unsupported) SetEssenceMessage(context.Context, MessageParams) error {
	return u.unsupported("SetEssenceMessage")
}

func (u Unsupported) DeleteEssenceMessage(context.Context, MessageParams) error {
	return u.unsupported("DeleteEssenceMessage")
}

func (u Unsupported) GetEssenceMessages(context.Context, GroupParams) ([]model.StoredMessage, error) {
	return nil, u.unsupported("GetEssenceMessages")
}

func (u Unsupported) GetGuildInfo(context.Context, GuildParams) (*model.GuildInfo, error) {
	return nil, u.unsupported("GetGuildInfo")
}

func (u Unsupported) GetGuildList(context.Context) ([]model.GuildInfo, error) {
	return nil, u.unsupported("GetGuildList")
}

func (u Unsupported) QuitGuild(context.Context, GuildParams) error {
	return u.unsupported("QuitGuild")
}

func (u Unsupported) GetChannelInfo(context.Context, ChannelParams) (*model.ChannelInfo, error) {
	return nil, u.unsupported("GetChannelInfo")
}

func (u Unsupported) GetChannelList(context.Context, GuildParams) ([]model.ChannelInfo, error) {
	return nil, u.unsupported("GetChannelList")
}

func (u Unsupported) CreateChannel(context.Context, CreateChannelParams) (*model.ChannelInfo, error) {
	return nil, u.unsupported("CreateChannel")
}

func (u Unsupported) UpdateChannel(context.Context, UpdateChannelParams) error {
	return u.unsupported("UpdateChannel")
}

func (u Unsupported) DeleteChannel(context.Context, ChannelParams) error {
	return u.unsupported("DeleteChannel")
}

func (u Unsupported) SendChannelMessage(context.Context, ChannelMessageParams) (*SendMessageResult, error) {
	return nil, u.unsupported("SendChannelMessage")
}

func (u Unsupported) GetGuildMemberInfo(context.Context, GuildUserParams) (*model.GuildMember, error) {
	return nil, u.unsupported("GetGuildMemberInfo")
}

func (u Unsupported) GetGuildMemberList(context.Context, GuildParams) ([]model.GuildMember, error) {
	return nil, u.unsupported("GetGuildMemberList")
}

func (u Unsupported) SetChannelMemberRole(context.Context, RoleParams) error {
	return u.unsupported("SetChannelMemberRole")
}

func (u Unsupported) KickChannelMember(context.Context, GuildUserParams) error {
	return u.unsupported("KickChannelMember")
}

func (u Unsupported) MuteChannelMember(context.Context, ChannelMuteParams) error {
	return u.unsupported("MuteChannelMember")
}

func (u Unsupported) UploadGroupFile(context.Context, UploadGroupFileParams) (*model.FileInfo, error) {
	return nil, u.unsupported("UploadGroupFile")
}

func (u Unsupported) UploadPrivateFile(context.Context, UploadPrivateFileParams) (*model.FileInfo, error) {
	return nil, u.unsupported("UploadPrivateFile")
}

func (u Unsupported) GetFileURL(context.Context, FileParams) (string, error) {
	return "", u.unsupported("GetFileURL")
}

func (u Unsupported) DeleteGroupFile(context.Context, FileParams) error {
	return u.unsupported("DeleteGroupFile")
}

func (u Unsupported) CreateGroupFolder(context.Context, FolderParams) (*model.FileInfo, error) {
	return nil, u.unsupported("CreateGroupFolder")
}

func (u Unsupported) DeleteGroupFolder(context.Context, GroupFolderParams) error {
	return u.unsupported("DeleteGroupFolder")
}

func (u Unsupported) GetGroupFiles(context.Context, GroupFilesParams) ([]model.FileInfo, error) {
	return nil, u.unsupported("GetGroupFiles")
}

func (u Unsupported) MoveGroupFile(context.Context, MoveFileParams) error {
	return u.unsupported("MoveGroupFile")
}

func (u Unsupported) UploadMedia(context.Context, UploadMediaParams) (*model.FileInfo, error) {
	return nil, u.unsupported("UploadMedia")
}

func (u Unsupported) GetMediaURL(context.Context, FileParams) (string, error) {
	return "", u.unsupported("GetMediaURL")
}

func (u Unsupported) GetRecord(context.Context, RecordParams) (*model.FileInfo, error) {
	return nil, u.unsupported("GetRecord")
}

func (u Unsupported) GetImage(context.Context, FileParams) (*model.FileInfo, error) {
	return nil, u.unsupported("GetImage")
}

func (u Unsupported) GetVersion(context.Context) (*model.Version, error) {
	return nil, u.unsupported("GetVersion")
}

func (u Unsupported) GetStatus(context.Context) (*model.Status, error) {
	return nil, u.unsupported("GetStatus")
}

func (u Unsupported) CleanCache(context.Context) error {
	return u.unsupported("CleanCache")
}

func (u Unsupported) CanSendImage(context.Context) (bool, error) {
	return false, u.unsupported("CanSendImage")
}

func (u Unsupported) CanSendRecord(context.Context) (bool, error) {
	return false, u.unsupported("CanSendRecord")
}

// compile-time check that Unsupported covers the whole contract.
var _ API = Unsupported{}
