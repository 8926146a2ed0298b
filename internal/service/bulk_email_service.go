package service

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/model"
	er "github.com/RoyceAzure/lab/storefront/internal/pkg/rj_error"
	"github.com/RoyceAzure/lab/storefront/internal/util"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const bulkEmailConcurrency = 5

type BulkEmailInput struct {
	Subject    string
	Content    string
	Recipients []string
	// Group 未指定 Recipients 時寄給該分組客戶，空字串代表全部客戶
	Group string
}

type BulkEmailResult struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

type IBulkEmailService interface {
	// Send 單封失敗只計數，不中斷其他收件人
	//
	// 錯誤:
	//   - er.BadRequestCode 400: 主旨或內容為空、沒有收件人
	Send(ctx context.Context, in BulkEmailInput) (*BulkEmailResult, error)
}

type BulkEmailService struct {
	customers db.ICustomerRepository
	notifier  INotifier
	logger    *zerolog.Logger
}

func NewBulkEmailService(customers db.ICustomerRepository, notifier INotifier, logger *zerolog.Logger) *BulkEmailService {
	if util.IsNil(customers) {
		panic("bulk email service initialization failed: customers repository cannot be nil")
	}
	if util.IsNil(notifier) {
		panic("bulk email service initialization failed: notifier cannot be nil")
	}
	if logger == nil {
		l := zerolog.Nop()
		logger = &l
	}
	return &BulkEmailService{customers: customers, notifier: notifier, logger: logger}
}

func (s *BulkEmailService) recipients(ctx context.Context, in BulkEmailInput) ([]string, error) {
	seen := map[string]struct{}{}
	var res []string
	add := func(email string) {
		email = normalizeEmail(email)
		if email == "" {
			return
		}
		if _, ok := seen[email]; ok {
			return
		}
		seen[email] = struct{}{}
		res = append(res, email)
	}

	if len(in.Recipients) > 0 {
		for _, r := range in.Recipients {
			add(r)
		}
		return res, nil
	}

	if in.Group != "" && !model.IsValidCustomerGroup(in.Group) {
		return nil, er.Newf(er.BadRequestCode, "invalid customer group %s", in.Group)
	}
	customers, _, err := s.customers.ListCustomers(ctx, model.CustomerFilter{Group: in.Group})
	if err != nil {
		return nil, repoErr(err, "customer")
	}
	for _, c := range customers {
		add(c.Email)
	}
	return res, nil
}

func (s *BulkEmailService) Send(ctx context.Context, in BulkEmailInput) (*BulkEmailResult, error) {
	if strings.TrimSpace(in.Subject) == "" || strings.TrimSpace(in.Content) == "" {
		return nil, er.New(er.BadRequestCode, "subject and content are required")
	}
	to, err := s.recipients(ctx, in)
	if err != nil {
		return nil, err
	}
	if len(to) == 0 {
		return nil, er.New(er.BadRequestCode, "no recipients")
	}

	var sent, failed atomic.Int64
	g := new(errgroup.Group)
	g.SetLimit(bulkEmailConcurrency)
	for _, email := range to {
		g.Go(func() error {
			if err := s.notifier.SendPromotional(ctx, email, in.Subject, in.Content); err != nil {
				failed.Add(1)
				s.logger.Warn().Err(err).Str("to", email).Msg("bulk email failed")
				return nil
			}
			sent.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	res := &BulkEmailResult{Sent: int(sent.Load()), Failed: int(failed.Load())}
	s.logger.Info().Int("sent", res.Sent).Int("failed", res.Failed).Msg("bulk email finished")
	return res, nil
}
