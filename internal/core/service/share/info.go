package share

import (
	"context"
	"xenbox/internal/core/domain"
)

// Info describes a shared file without its bytes
func (s *shareService) Info(ctx context.Context, token string) (*domain.ShareInfo, error) {
	file, err := s.resolve(ctx, token)
	if err != nil {
		return nil, err
	}

	return &domain.ShareInfo{
		Filename:         file.Filename,
		MimeType:         file.MimeType,
		SizeBytes:        file.SizeBytes,
		RequiresPassword: file.HasPassword(),
	}, nil
}
