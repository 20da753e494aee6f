package v1

import (
	"github.com/andreyxaxa/Event-Attestor/internal/usecase"
	"github.com/andreyxaxa/Event-Attestor/pkg/logger"
)

type V1 struct {
	att    usecase.AttestationUseCase
	logger logger.Interface
}
