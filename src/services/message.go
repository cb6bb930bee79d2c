package services

import (
	"context"
	"fmt"
	"strings"

	"uservice/src/access"
	"uservice/src/models"
	"uservice/src/models/scopes"
	"uservice/src/types"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MessageService struct {
	db  *gorm.DB
	now Clock
}

func NewMessageService(db *gorm.DB) *MessageService {
	return &MessageService{db: db, now: utcNow}
}

func (s *MessageService) WithClock(now Clock) *MessageService {
	s.now = now
	return s
}

func withParties(db *gorm.DB) *gorm.DB {
	return db.Preload("Sender").Preload("Recipient")
}

func (s *MessageService) find(ctx context.Context, id uuid.UUID) (*models.Message, error) {
	var m models.Message
	if err := s.db.WithContext(ctx).Scopes(scopes.WithID(id)).First(&m).Error; err != nil {
		return nil, notFound(err, "message")
	}
	return &m, nil
}

// authorize loads a message visible to the caller: a party to it or staff.
func (s *MessageService) authorize(ctx context.Context, caller *types.Caller, id uuid.UUID) (*models.Message, error) {
	if err := access.RequireCaller(caller); err != nil {
		return nil, err
	}
	m, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !m.Party(caller.ID) && !caller.IsStaff() {
		return nil, fmt.Errorf("%w: not a party to this message", types.ErrForbidden)
	}
	return m, nil
}

func (s *MessageService) Create(ctx context.Context, caller *types.Caller, body *types.CreateMessageRequestBody) (*models.Message, error) {
	if err := access.RequireCaller(caller); err != nil {
		return nil, err
	}
	verr := &types.ValidationError{}
	recipientID, err := uuid.Parse(body.Recipient)
	if err != nil {
		verr.Add("recipient", "must be a valid id")
	}
	subject := strings.TrimSpace(body.Subject)
	if n := len([]rune(subject)); n < 3 || n > 200 {
		verr.Add("subject", "must be between 3 and 200 characters")
	}
	if n := len([]rune(body.Content)); n < 10 || n > 5000 {
		verr.Add("content", "must be between 10 and 5000 characters")
	}
	category := types.MessageCategory(body.Category)
	if category == "" {
		category = types.CATEGORY_GENERAL
	}
	priority := types.MessagePriority(body.Priority)
	if priority == "" {
		priority = types.PRIORITY_MEDIUM
	}
	relatedBooking := optionalID(verr, body.RelatedBooking, "related_booking")
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Scopes(scopes.WithID(recipientID)).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, fmt.Errorf("%w: recipient", types.ErrNotFound)
	}

	m := models.Message{
		ID:               uuid.New(),
		Subject:          subject,
		Content:          body.Content,
		SenderID:         caller.ID,
		RecipientID:      recipientID,
		Category:         category,
		Priority:         priority,
		Status:           types.MESSAGE_UNREAD,
		Replies:          datatypes.JSONSlice[uuid.UUID]{},
		Tags:             strs(body.Tags),
		RelatedBookingID: relatedBooking,
		DueDate:          body.DueDate,
		Attachments:      strs(nil),
	}
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return nil, err
	}
	return s.withParties(ctx, m.ID)
}

func (s *MessageService) withParties(ctx context.Context, id uuid.UUID) (*models.Message, error) {
	var m models.Message
	if err := s.db.WithContext(ctx).Scopes(withParties, scopes.WithID(id)).First(&m).Error; err != nil {
		return nil, notFound(err, "message")
	}
	return &m, nil
}

// View returns a message. The recipient opening an unread message marks it read.
func (s *MessageService) View(ctx context.Context, caller *types.Caller, id uuid.UUID) (*models.Message, error) {
	m, err := s.authorize(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if m.RecipientID == caller.ID && m.Status == types.MESSAGE_UNREAD {
		m.SetStatus(types.MESSAGE_READ, s.now())
		if err := s.db.WithContext(ctx).Model(m).Select("status", "read_at").Updates(m).Error; err != nil {
			return nil, err
		}
	}
	return s.withParties(ctx, id)
}

// Reply sends a message to the other party of id in the same thread.
func (s *MessageService) Reply(ctx context.Context, caller *types.Caller, id uuid.UUID, body *types.ReplyMessageRequestBody) (*models.Message, error) {
	original, err := s.authorize(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if n := len([]rune(body.Content)); n < 10 || n > 5000 {
		return nil, types.NewFieldError("content", "must be between 10 and 5000 characters")
	}
	subject := strings.TrimSpace(body.Subject)
	if subject == "" {
		subject = "Re: " + original.Subject
		if r := []rune(subject); len(r) > 200 {
			subject = string(r[:200])
		}
	}
	recipient := original.SenderID
	if caller.ID == original.SenderID {
		recipient = original.RecipientID
	}
	root := original.Root()
	now := s.now()
	reply := models.Message{
		ID:          uuid.New(),
		Subject:     subject,
		Content:     body.Content,
		SenderID:    caller.ID,
		RecipientID: recipient,
		Category:    original.Category,
		Priority:    original.Priority,
		Status:      types.MESSAGE_UNREAD,
		ThreadID:    &root,
		Replies:     datatypes.JSONSlice[uuid.UUID]{},
		Tags:        datatypes.JSONSlice[string]{},
		Attachments: strs(nil),
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&reply).Error; err != nil {
			return err
		}
		var parent models.Message
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Scopes(scopes.WithID(id)).First(&parent).Error; err != nil {
			return notFound(err, "message")
		}
		parent.SetStatus(types.MESSAGE_REPLIED, now)
		parent.Replies = append(parent.Replies, reply.ID)
		return tx.Model(&parent).Select("status", "replied_at", "replies", "updated_at").Updates(&parent).Error
	})
	if err != nil {
		return nil, err
	}
	return s.withParties(ctx, reply.ID)
}

func (s *MessageService) UpdateStatus(ctx context.Context, caller *types.Caller, id uuid.UUID, status types.MessageStatus) (*models.Message, error) {
	m, err := s.authorize(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, types.NewFieldError("status", "must be one of unread, read, replied, closed")
	}
	m.SetStatus(status, s.now())
	if err := s.db.WithContext(ctx).Model(m).Select("status", "read_at", "replied_at", "closed_at", "updated_at").Updates(m).Error; err != nil {
		return nil, err
	}
	return s.withParties(ctx, id)
}

// Delete removes a message. Only its sender or an admin may delete it.
func (s *MessageService) Delete(ctx context.Context, caller *types.Caller, id uuid.UUID) error {
	m, err := s.authorize(ctx, caller, id)
	if err != nil {
		return err
	}
	if err := access.RequireOwnerOrRole(caller, m.SenderID, types.ROLE_ADMIN); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Scopes(scopes.WithID(id)).Delete(&models.Message{}).Error
}

// Thread returns the root of the thread containing id followed by its replies, oldest first.
func (s *MessageService) Thread(ctx context.Context, caller *types.Caller, id uuid.UUID) ([]models.Message, error) {
	m, err := s.authorize(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	root := m.Root()
	msgs := []models.Message{}
	err = s.db.WithContext(ctx).Scopes(withParties).
		Where("id = ? OR thread_id = ?", root, root).
		Order("created_at ASC").
		Find(&msgs).Error
	return msgs, err
}

func (s *MessageService) MarkAllRead(ctx context.Context, caller *types.Caller) (int64, error) {
	if err := access.RequireCaller(caller); err != nil {
		return 0, err
	}
	res := s.db.WithContext(ctx).Model(&models.Message{}).
		Where("recipient_id = ? AND status = ?", caller.ID, types.MESSAGE_UNREAD).
		Updates(map[string]any{"status": types.MESSAGE_READ, "read_at": s.now()})
	return res.RowsAffected, res.Error
}

func (s *MessageService) UnreadCount(ctx context.Context, caller *types.Caller) (int64, error) {
	if err := access.RequireCaller(caller); err != nil {
		return 0, err
	}
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Message{}).
		Where("recipient_id = ? AND status = ?", caller.ID, types.MESSAGE_UNREAD).
		Count(&count).Error
	return count, err
}

// Mine lists messages the caller sent, received, or both.
func (s *MessageService) Mine(ctx context.Context, caller *types.Caller, filters *types.MessageQueryFilters) ([]models.Message, *types.Pagination, error) {
	if err := access.RequireCaller(caller); err != nil {
		return nil, nil, err
	}
	q := s.db.WithContext(ctx).Model(&models.Message{}).Scopes(scopes.WithStatus(filters.Status))
	switch filters.Type {
	case "sent":
		q = q.Where("sender_id = ?", caller.ID)
	case "received":
		q = q.Where("recipient_id = ?", caller.ID)
	default:
		q = q.Where("sender_id = ? OR recipient_id = ?", caller.ID, caller.ID)
	}
	if filters.Category != "" {
		q = q.Where("category = ?", filters.Category)
	}
	if filters.Priority != "" {
		q = q.Where("priority = ?", filters.Priority)
	}
	return s.page(q, filters.PageQuery)
}

func (s *MessageService) List(ctx context.Context, caller *types.Caller, filters *types.MessageQueryFilters) ([]models.Message, *types.Pagination, error) {
	if err := access.RequireRole(caller, access.Staff...); err != nil {
		return nil, nil, err
	}
	q := s.db.WithContext(ctx).Model(&models.Message{}).Scopes(scopes.WithStatus(filters.Status))
	if filters.Category != "" {
		q = q.Where("category = ?", filters.Category)
	}
	if filters.Priority != "" {
		q = q.Where("priority = ?", filters.Priority)
	}
	return s.page(q, filters.PageQuery)
}

func (s *MessageService) page(q *gorm.DB, page types.PageQuery) ([]models.Message, *types.Pagination, error) {
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, nil, err
	}
	msgs := []models.Message{}
	if err := q.Scopes(withParties, scopes.Paginate(page)).
		Order("created_at DESC").
		Find(&msgs).Error; err != nil {
		return nil, nil, err
	}
	return msgs, scopes.PaginationOf(page, total), nil
}

// Urgent lists urgent messages nobody has answered or closed yet.
func (s *MessageService) Urgent(ctx context.Context, caller *types.Caller) ([]models.Message, error) {
	if err := access.RequireRole(caller, access.Staff...); err != nil {
		return nil, err
	}
	msgs := []models.Message{}
	err := s.db.WithContext(ctx).Scopes(withParties).
		Where("priority = ? AND status IN ?", types.PRIORITY_URGENT, []types.MessageStatus{types.MESSAGE_UNREAD, types.MESSAGE_READ}).
		Order("created_at ASC").
		Find(&msgs).Error
	return msgs, err
}
