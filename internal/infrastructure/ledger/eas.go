package ledger

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/andreyxaxa/Event-Attestor/internal/entity"
	"github.com/andreyxaxa/Event-Attestor/pkg/logger"
	"github.com/andreyxaxa/Event-Attestor/pkg/types/errs"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rpc"
)

const (
	_defaultPollInterval  = 2 * time.Second
	_defaultConfirmations = 1
	// estimate headroom, percent
	_gasMarginPercent = 20
)

var errUnexpectedLog = errors.New("unexpected Attested log layout")

// Backend is the subset of *ethclient.Client the submitter needs.
type Backend interface {
	ChainID(ctx context.Context) (*big.Int, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	NonceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (uint64, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

type Option func(*EAS)

func ChainID(id int64) Option {
	return func(e *EAS) {
		if id > 0 {
			e.chainID = big.NewInt(id)
		}
	}
}

func PollInterval(d time.Duration) Option {
	return func(e *EAS) {
		if d > 0 {
			e.pollInterval = d
		}
	}
}

// Confirmations is the number of blocks, including the inclusion block, to wait for.
func Confirmations(n uint64) Option {
	return func(e *EAS) {
		if n > 0 {
			e.confirmations = n
		}
	}
}

// EAS submits attestations to an Ethereum Attestation Service contract.
type EAS struct {
	backend       Backend
	contract      common.Address
	chainID       *big.Int
	pollInterval  time.Duration
	confirmations uint64

	sendMu sync.Mutex

	key    *ecdsa.PrivateKey
	from   common.Address
	keyErr error

	l logger.Interface
}

// New binds the submitter to a contract. A missing or malformed key does not fail
// construction; every Broadcast reports it as errs.ErrSigningUnavailable.
func New(backend Backend, contract common.Address, privateKeyHex string, l logger.Interface, opts ...Option) *EAS {
	e := &EAS{
		backend:       backend,
		contract:      contract,
		pollInterval:  _defaultPollInterval,
		confirmations: _defaultConfirmations,
		l:             l,
	}

	for _, opt := range opts {
		opt(e)
	}

	e.key, e.keyErr = parseKey(privateKeyHex)
	if e.keyErr == nil {
		e.from = crypto.PubkeyToAddress(e.key.PublicKey)
	}

	return e
}

func parseKey(hexKey string) (*ecdsa.PrivateKey, error) {
	hexKey = strings.TrimPrefix(strings.TrimSpace(hexKey), "0x")
	if hexKey == "" {
		return nil, errors.New("no signing key configured")
	}

	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, fmt.Errorf("crypto.HexToECDSA: %w", err)
	}

	return key, nil
}

// Attester is the address transactions are signed with, empty without a usable key.
func (e *EAS) Attester() string {
	if e.keyErr != nil {
		return ""
	}

	return e.from.Hex()
}

// Broadcast signs and sends the attest transaction. Once SendTransaction has been
// attempted any unclear outcome is reported as ambiguous with the transaction hash.
func (e *EAS) Broadcast(ctx context.Context, req entity.AttestationRequest) (entity.Submission, error) {
	// 1. Signing credential
	if e.keyErr != nil {
		return entity.Submission{}, fmt.Errorf("EAS - Broadcast: %w: %v", errs.ErrSigningUnavailable, e.keyErr)
	}

	// 2. Calldata
	data, err := e.calldata(req)
	if err != nil {
		return entity.Submission{}, fmt.Errorf("EAS - Broadcast - e.calldata: %w", err)
	}

	// 3. Fees, nonce, gas. Nonce allocation is serialized until the send.
	e.sendMu.Lock()
	defer e.sendMu.Unlock()

	chainID, err := e.chain(ctx)
	if err != nil {
		return entity.Submission{}, fmt.Errorf("EAS - Broadcast - e.chain: %w: %v", errs.ErrLedgerUnavailable, err)
	}

	nonce, err := e.backend.PendingNonceAt(ctx, e.from)
	if err != nil {
		return entity.Submission{}, fmt.Errorf("EAS - Broadcast - e.backend.PendingNonceAt: %w: %v", errs.ErrLedgerUnavailable, err)
	}

	tip, err := e.backend.SuggestGasTipCap(ctx)
	if err != nil {
		return entity.Submission{}, fmt.Errorf("EAS - Broadcast - e.backend.SuggestGasTipCap: %w: %v", errs.ErrLedgerUnavailable, err)
	}

	head, err := e.backend.HeaderByNumber(ctx, nil)
	if err != nil {
		return entity.Submission{}, fmt.Errorf("EAS - Broadcast - e.backend.HeaderByNumber: %w: %v", errs.ErrLedgerUnavailable, err)
	}

	feeCap := new(big.Int).Set(tip)
	if head.BaseFee != nil {
		feeCap.Add(feeCap, new(big.Int).Mul(head.BaseFee, big.NewInt(2)))
	}

	gas, err := e.backend.EstimateGas(ctx, ethereum.CallMsg{
		From:      e.from,
		To:        &e.contract,
		GasTipCap: tip,
		GasFeeCap: feeCap,
		Value:     big.NewInt(0),
		Data:      data,
	})
	if err != nil {
		return entity.Submission{}, fmt.Errorf("EAS - Broadcast - e.backend.EstimateGas: %w", estimateError(err))
	}
	gas += gas * _gasMarginPercent / 100

	// 4. Sign
	tx, err := types.SignNewTx(e.key, types.LatestSignerForChainID(chainID), &types.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     nonce,
		GasTipCap: tip,
		GasFeeCap: feeCap,
		Gas:       gas,
		To:        &e.contract,
		Value:     big.NewInt(0),
		Data:      data,
	})
	if err != nil {
		return entity.Submission{}, fmt.Errorf("EAS - Broadcast - types.SignNewTx: %w: %v", errs.ErrSigningUnavailable, err)
	}

	sub := entity.Submission{
		Request:  req,
		TxHash:   tx.Hash().Hex(),
		Attester: e.from.Hex(),
		Nonce:    nonce,
	}

	// 5. Send
	err = e.backend.SendTransaction(ctx, tx)
	if err != nil {
		var rpcErr rpc.Error
		if errors.As(err, &rpcErr) {
			// the node answered and refused the transaction
			return entity.Submission{}, fmt.Errorf("EAS - Broadcast - e.backend.SendTransaction: %w: %v", errs.ErrSubmissionRejected, err)
		}

		return sub, fmt.Errorf("EAS - Broadcast - e.backend.SendTransaction: %w", &errs.AmbiguousSubmissionError{
			TxHash:   sub.TxHash,
			Attester: sub.Attester,
			Nonce:    sub.Nonce,
			Err:      fmt.Errorf("%w: %v", errs.ErrBroadcastUnknown, err),
		})
	}

	e.l.Info("EAS - Broadcast - sent attestation tx %s nonce %d", sub.TxHash, nonce)

	return sub, nil
}

// AwaitConfirmation polls for the receipt until the context ends. Running out of time
// is ambiguous: the transaction may still be included later.
func (e *EAS) AwaitConfirmation(ctx context.Context, sub entity.Submission) (entity.AttestationReceipt, error) {
	ticker := time.NewTicker(e.pollInterval)
	defer ticker.Stop()

	for {
		receipt, found, err := e.Lookup(ctx, sub)
		switch {
		case err != nil && errors.Is(err, errs.ErrUpstreamRejected):
			return entity.AttestationReceipt{}, fmt.Errorf("EAS - AwaitConfirmation: %w", err)
		case err != nil:
			e.l.Warn("EAS - AwaitConfirmation - e.Lookup(%s): %v", sub.TxHash, err)
		case found:
			return receipt, nil
		}

		select {
		case <-ctx.Done():
			return entity.AttestationReceipt{}, fmt.Errorf("EAS - AwaitConfirmation: %w", &errs.AmbiguousSubmissionError{
				TxHash:   sub.TxHash,
				Attester: sub.Attester,
				Nonce:    sub.Nonce,
				Err:      fmt.Errorf("%w: %v", errs.ErrConfirmationTimeout, ctx.Err()),
			})
		case <-ticker.C:
		}
	}
}

// Submit broadcasts and waits for inclusion.
func (e *EAS) Submit(ctx context.Context, req entity.AttestationRequest) (entity.AttestationReceipt, error) {
	sub, err := e.Broadcast(ctx, req)
	if err != nil {
		return entity.AttestationReceipt{}, fmt.Errorf("EAS - Submit: %w", err)
	}

	receipt, err := e.AwaitConfirmation(ctx, sub)
	if err != nil {
		return entity.AttestationReceipt{}, fmt.Errorf("EAS - Submit: %w", err)
	}

	return receipt, nil
}

// Lookup checks a broadcast transaction once. found is false while the transaction is
// pending or unknown to the node. A reverted transaction, or one whose nonce was
// consumed by a different transaction, is rejected.
func (e *EAS) Lookup(ctx context.Context, sub entity.Submission) (entity.AttestationReceipt, bool, error) {
	hash := common.HexToHash(sub.TxHash)

	receipt, err := e.backend.TransactionReceipt(ctx, hash)
	if errors.Is(err, ethereum.NotFound) {
		replaced, nerr := e.nonceConsumed(ctx, sub)
		if nerr != nil {
			return entity.AttestationReceipt{}, false, fmt.Errorf("EAS - Lookup - e.nonceConsumed: %w: %v", errs.ErrLedgerUnavailable, nerr)
		}
		if !replaced {
			return entity.AttestationReceipt{}, false, nil
		}

		// the nonce moved on: the transaction is either included by now or gone for good
		receipt, err = e.backend.TransactionReceipt(ctx, hash)
		if errors.Is(err, ethereum.NotFound) {
			return entity.AttestationReceipt{}, false, fmt.Errorf("EAS - Lookup: %w: nonce %d of %s used by another transaction",
				errs.ErrSubmissionRejected, sub.Nonce, sub.TxHash)
		}
	}
	if err != nil {
		return entity.AttestationReceipt{}, false, fmt.Errorf("EAS - Lookup - e.backend.TransactionReceipt: %w: %v", errs.ErrLedgerUnavailable, err)
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		return entity.AttestationReceipt{}, false, fmt.Errorf("EAS - Lookup: %w: transaction %s reverted", errs.ErrSubmissionRejected, sub.TxHash)
	}

	if e.confirmations > 1 {
		head, err := e.backend.HeaderByNumber(ctx, nil)
		if err != nil {
			return entity.AttestationReceipt{}, false, fmt.Errorf("EAS - Lookup - e.backend.HeaderByNumber: %w: %v", errs.ErrLedgerUnavailable, err)
		}
		// a lagging node behind a load balancer can report a head below the receipt
		if head.Number.Cmp(receipt.BlockNumber) < 0 {
			return entity.AttestationReceipt{}, false, nil
		}
		depth := new(big.Int).Sub(head.Number, receipt.BlockNumber).Uint64() + 1
		if depth < e.confirmations {
			return entity.AttestationReceipt{}, false, nil
		}
	}

	uid, err := e.attestedUID(receipt)
	if err != nil {
		return entity.AttestationReceipt{}, false, fmt.Errorf("EAS - Lookup - e.attestedUID: %w: %v", errs.ErrSubmissionRejected, err)
	}

	return entity.AttestationReceipt{
		AttestationID: uid.Hex(),
		SchemaUID:     sub.Request.SchemaUID,
		Recipient:     sub.Request.Recipient,
		Attester:      sub.Attester,
		Payload:       sub.Request.Payload,
		Revocable:     sub.Request.Revocable,
		Expiration:    sub.Request.Expiration,
		TxHash:        receipt.TxHash.Hex(),
		BlockNumber:   receipt.BlockNumber.Uint64(),
	}, true, nil
}

func (e *EAS) nonceConsumed(ctx context.Context, sub entity.Submission) (bool, error) {
	if !common.IsHexAddress(sub.Attester) {
		return false, nil
	}

	latest, err := e.backend.NonceAt(ctx, common.HexToAddress(sub.Attester), nil)
	if err != nil {
		return false, err
	}

	return latest > sub.Nonce, nil
}

func (e *EAS) attestedUID(receipt *types.Receipt) (common.Hash, error) {
	eventID := attestedEventID()

	for _, log := range receipt.Logs {
		if log.Address != e.contract || len(log.Topics) == 0 || log.Topics[0] != eventID {
			continue
		}

		return unpackAttestedUID(log.Data)
	}

	return common.Hash{}, errors.New("no Attested event in receipt")
}

func (e *EAS) calldata(req entity.AttestationRequest) ([]byte, error) {
	schema, err := hexHash(req.SchemaUID)
	if err != nil {
		return nil, fmt.Errorf("%w: schema uid: %v", errs.ErrSchemaMismatch, err)
	}

	if !common.IsHexAddress(req.Recipient) {
		return nil, fmt.Errorf("%w: recipient %q is not an account address", errs.ErrValidation, req.Recipient)
	}

	var expiration uint64
	if req.Expiration != nil {
		expiration = uint64(req.Expiration.Unix())
	}

	data, err := packAttest(attestationRequest{
		Schema: schema,
		Data: attestationRequestData{
			Recipient:      common.HexToAddress(req.Recipient),
			ExpirationTime: expiration,
			Revocable:      req.Revocable,
			Data:           req.Payload,
			Value:          big.NewInt(0),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrSchemaMismatch, err)
	}

	return data, nil
}

func (e *EAS) chain(ctx context.Context) (*big.Int, error) {
	if e.chainID != nil {
		return e.chainID, nil
	}

	id, err := e.backend.ChainID(ctx)
	if err != nil {
		return nil, err
	}
	e.chainID = id

	return id, nil
}

// estimateError classifies a failed gas estimate. A JSON-RPC error means the call
// would revert.
func estimateError(err error) error {
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		return fmt.Errorf("%w: %v", errs.ErrSubmissionRejected, err)
	}

	return fmt.Errorf("%w: %v", errs.ErrLedgerUnavailable, err)
}

func hexHash(s string) ([32]byte, error) {
	b := common.FromHex(s)
	if len(b) != common.HashLength {
		return [32]byte{}, fmt.Errorf("want %d bytes, got %d", common.HashLength, len(b))
	}

	return common.BytesToHash(b), nil
}
