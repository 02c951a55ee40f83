package adapter

import (
	"time"

	"github.com/nidhogg/crossgate/internal/model"
)

// Parameter and result shapes for the contract operations. These are part
// of the canonical model: protocol engines translate wire params into them
// and never pass platform-specific payloads through.

type SendMessageParams struct {
	Scene    model.SceneType
	SceneID  model.ID
	GuildID  model.ID
	Segments []model.Segment
}

type SendMessageResult struct {
	MessageID model.ID
	Time      time.Time
}

type MessageParams struct {
	MessageID model.ID
	GroupID   model.ID
}

type HistoryParams struct {
	Scene   model.SceneType
	SceneID model.ID
	Before  model.ID
	Limit   int
}

type ForwardParams struct {
	Scene      model.SceneType
	SceneID    model.ID
	MessageIDs []model.ID
}

type ForwardIDParams struct {
	ForwardID model.ID
}

type UserParams struct {
	UserID model.ID
}

type LikeParams struct {
	UserID model.ID
	Times  int
}

type RemarkParams struct {
	UserID model.ID
	Remark string
}

// PendingRequest is a friend/group request awaiting a decision.
type PendingRequest struct {
	Flag    string
	UserID  model.ID
	GroupID model.ID
	Comment string
	Time    time.Time
}

type HandleRequestParams struct {
	Flag    string
	Approve bool
	Reason  string
}

type GroupParams struct {
	GroupID model.ID
}

type GroupUserParams struct {
	GroupID model.ID
	UserID  model.ID
}

type GroupNameParams struct {
	GroupID model.ID
	Name    string
}

type GroupAvatarParams struct {
	GroupID model.ID
	URL     string
}

type GroupAdminParams struct {
	GroupID model.ID
	UserID  model.ID
	Enable  bool
}

type GroupCardParams struct {
	GroupID model.ID
	UserID  model.ID
	Card    string
}

type GroupTitleParams struct {
	GroupID model.ID
	UserID  model.ID
	Title   string
}

type KickParams struct {
	GroupID      model.ID
	UserID       model.ID
	RejectRejoin bool
}

type MuteParams struct {
	GroupID  model.ID
	UserID   model.ID
	Duration time.Duration
}

type MuteAllParams struct {
	GroupID model.ID
	Enable  bool
}

type AnnouncementParams struct {
	GroupID  model.ID
	Content  string
	ImageURL string
}

type AnnouncementIDParams struct {
	GroupID        model.ID
	AnnouncementID model.ID
}

type GuildParams struct {
	GuildID model.ID
}

type GuildUserParams struct {
	GuildID model.ID
	UserID  model.ID
}

type ChannelParams struct {
	ChannelID model.ID
}

type CreateChannelParams struct {
	GuildID model.ID
	Name    string
	Type    model.ChannelType
}

type UpdateChannelParams struct {
	ChannelID model.ID
	Name      string
}

type ChannelMessageParams struct {
	ChannelID model.ID
	Segments  []model.Segment
}

type RoleParams struct {
	GuildID model.ID
	UserID  model.ID
	Role    string
	Enable  bool
}

type ChannelMuteParams struct {
	ChannelID model.ID
	UserID    model.ID
	Duration  time.Duration
}

type UploadGroupFileParams struct {
	GroupID  model.ID
	Name     string
	URL      string
	FolderID model.ID
}

type UploadPrivateFileParams struct {
	UserID model.ID
	Name   string
	URL    string
}

type FileParams struct {
	FileID  model.ID
	GroupID model.ID
}

type FolderParams struct {
	GroupID model.ID
	Name    string
}

type GroupFolderParams struct {
	GroupID  model.ID
	FolderID model.ID
}

type GroupFilesParams struct {
	GroupID  model.ID
	FolderID model.ID
}

type MoveFileParams struct {
	GroupID        model.ID
	FileID         model.ID
	TargetFolderID model.ID
}

type UploadMediaParams struct {
	Type string
	URL  string
	Name string
}

type RecordParams struct {
	FileID model.ID
	Format string
}
