// Package adapter defines the capability contract between platform
// adapters and the protocol engines. The contract is the full catalog of
// operations a platform may support; a concrete adapter embeds Unsupported
// and overrides only what its platform can actually do, so capability
// absence surfaces uniformly as a *CapabilityError value at call time.
package adapter

import (
	"context"

	"github.com/nidhogg/crossgate/internal/model"
)

// MessageActions covers sending, recalling and reading back messages.
type MessageActions interface {
	SendMessage(ctx context.Context, p SendMessageParams) (*SendMessageResult, error)
	SendPrivateMessage(ctx context.Context, user model.ID, segs []model.Segment) (*SendMessageResult, error)
	SendGroupMessage(ctx context.Context, group model.ID, segs []model.Segment) (*SendMessageResult, error)
	DeleteMessage(ctx context.Context, p MessageParams) error
	GetMessage(ctx context.Context, p MessageParams) (*model.StoredMessage, error)
	GetMessageHistory(ctx context.Context, p HistoryParams) ([]model.StoredMessage, error)
	SendForwardMessage(ctx context.Context, p ForwardParams) (*SendMessageResult, error)
	GetForwardMessage(ctx context.Context, p ForwardIDParams) ([]model.StoredMessage, error)
	MarkMessageRead(ctx context.Context, p MessageParams) error
}

// UserActions covers the bot's own profile and other users.
type UserActions interface {
	GetLoginInfo(ctx context.Context) (*model.User, error)
	GetUserInfo(ctx context.Context, p UserParams) (*model.User, error)
	GetStrangerInfo(ctx context.Context, p UserParams) (*model.User, error)
	SetNickname(ctx context.Context, name string) error
	SetAvatar(ctx context.Context, url string) error
	SendProfileLike(ctx context.Context, p LikeParams) error
}

// FriendActions covers the friend relation.
type FriendActions interface {
	GetFriendList(ctx context.Context) ([]model.Friend, error)
	GetFriendInfo(ctx context.Context, p UserParams) (*model.Friend, error)
	DeleteFriend(ctx context.Context, p UserParams) error
	SetFriendRemark(ctx context.Context, p RemarkParams) error
	SendFriendPoke(ctx context.Context, p UserParams) error
	GetFriendRequests(ctx context.Context) ([]PendingRequest, error)
	HandleFriendRequest(ctx context.Context, p HandleRequestParams) error
}

// GroupActions covers group membership and administration.
type GroupActions interface {
	GetGroupInfo(ctx context.Context, p GroupParams) (*model.GroupInfo, error)
	GetGroupList(ctx context.Context) ([]model.GroupInfo, error)
	GetGroupMemberInfo(ctx context.Context, p GroupUserParams) (*model.GroupMember, error)
	GetGroupMemberList(ctx context.Context, p GroupParams) ([]model.GroupMember, error)
	SetGroupName(ctx context.Context, p GroupNameParams) error
	SetGroupAvatar(ctx context.Context, p GroupAvatarParams) error
	SetGroupAdmin(ctx context.Context, p GroupAdminParams) error
	SetGroupMemberCard(ctx context.Context, p GroupCardParams) error
	SetGroupMemberTitle(ctx context.Context, p GroupTitleParams) error
	KickGroupMember(ctx context.Context, p KickParams) error
	MuteGroupMember(ctx context.Context, p MuteParams) error
	MuteGroup(ctx context.Context, p MuteAllParams) error
	QuitGroup(ctx context.Context, p GroupParams) error
	SendGroupPoke(ctx context.Context, p GroupUserParams) error
	GetGroupRequests(ctx context.Context) ([]PendingRequest, error)
	HandleGroupRequest(ctx context.Context, p HandleRequestParams) error
}

// AnnouncementActions covers group announcements.
type AnnouncementActions interface {
	SendGroupAnnouncement(ctx context.Context, p AnnouncementParams) error
	GetGroupAnnouncements(ctx context.Context, p GroupParams) ([]model.Announcement, error)
	DeleteGroupAnnouncement(ctx context.Context, p AnnouncementIDParams) error
}

// EssenceActions covers pinned (essence) messages.
type EssenceActions interface {
	SetEssenceMessage(ctx context.Context, p MessageParams) error
	DeleteEssenceMessage(ctx context.Context, p MessageParams) error
	GetEssenceMessages(ctx context.Context, p GroupParams) ([]model.StoredMessage, error)
}

// GuildActions covers guild- and channel-structured platforms.
type GuildActions interface {
	GetGuildInfo(ctx context.Context, p GuildParams) (*model.GuildInfo, error)
	GetGuildList(ctx context.Context) ([]model.GuildInfo, error)
	QuitGuild(ctx context.Context, p GuildParams) error
	GetChannelInfo(ctx context.Context, p ChannelParams) (*model.ChannelInfo, error)
	GetChannelList(ctx context.Context, p GuildParams) ([]model.ChannelInfo, error)
	CreateChannel(ctx context.Context, p CreateChannelParams) (*model.ChannelInfo, error)
	UpdateChannel(ctx context.Context, p UpdateChannelParams) error
	DeleteChannel(ctx context.Context, p ChannelParams) error
	SendChannelMessage(ctx context.Context, p ChannelMessageParams) (*SendMessageResult, error)
	GetGuildMemberInfo(ctx context.Context, p GuildUserParams) (*model.GuildMember, error)
}

// ChannelMemberActions covers membership administration inside guilds.
type ChannelMemberActions interface {
	GetGuildMemberList(ctx context.Context, p GuildParams) ([]model.GuildMember, error)
	SetChannelMemberRole(ctx context.Context, p RoleParams) error
	KickChannelMember(ctx context.Context, p GuildUserParams) error
	MuteChannelMember(ctx context.Context, p ChannelMuteParams) error
}

// FileActions covers group and private file storage.
type FileActions interface {
	UploadGroupFile(ctx context.Context, p UploadGroupFileParams) (*model.FileInfo, error)
	UploadPrivateFile(ctx context.Context, p UploadPrivateFileParams) (*model.FileInfo, error)
	GetFileURL(ctx context.Context, p FileParams) (string, error)
	DeleteGroupFile(ctx context.Context, p FileParams) error
	CreateGroupFolder(ctx context.Context, p FolderParams) (*model.FileInfo, error)
	DeleteGroupFolder(ctx context.Context, p GroupFolderParams) error
	GetGroupFiles(ctx context.Context, p GroupFilesParams) ([]model.FileInfo, error)
	MoveGroupFile(ctx context.Context, p MoveFileParams) error
}

// MediaActions covers media upload and retrieval.
type MediaActions interface {
	UploadMedia(ctx context.Context, p UploadMediaParams) (*model.FileInfo, error)
	GetMediaURL(ctx context.Context, p FileParams) (string, error)
	GetRecord(ctx context.Context, p RecordParams) (*model.FileInfo, error)
	GetImage(ctx context.Context, p FileParams) (*model.FileInfo, error)
}

// SystemActions covers gateway status and capability introspection.
type SystemActions interface {
	GetVersion(ctx context.Context) (*model.Version, error)
	GetStatus(ctx context.Context) (*model.Status, error)
	CleanCache(ctx context.Context) error
	CanSendImage(ctx context.Context) (bool, error)
	CanSendRecord(ctx context.Context) (bool, error)
}

// API is the full adapter contract. Every protocol engine's dispatch table
// is written once against this interface; unsupported combinations surface
// at call time as *CapabilityError.
type API interface {
	MessageActions
	UserActions
	FriendActions
	GroupActions
	AnnouncementActions
	EssenceActions
	GuildActions
	ChannelMemberActions
	FileActions
	MediaActions
	SystemActions
}
