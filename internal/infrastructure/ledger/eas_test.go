package ledger

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/andreyxaxa/Event-Attestor/internal/entity"
	"github.com/andreyxaxa/Event-Attestor/pkg/logger"
	"github.com/andreyxaxa/Event-Attestor/pkg/types/errs"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	contract  = common.HexToAddress("0xC2679fBD37d54388Ce493F1DB75320D236e1815e")
	recipient = "0x1111111111111111111111111111111111111111"
	schemaUID = "0xab00000000000000000000000000000000000000000000000000000000000001"
)

type rpcError struct{ code int }

func (e rpcError) Error() string  { return "execution reverted" }
func (e rpcError) ErrorCode() int { return e.code }

type fakeBackend struct {
	mu sync.Mutex

	estimateErr error
	sendErr     error
	nonceErr    error

	pendingNonce uint64
	latestNonce  uint64
	head         uint64

	sent     []*types.Transaction
	receipts map[common.Hash]*types.Receipt
	// receipts become visible after this many polls
	hideFor int
}

func (b *fakeBackend) ChainID(context.Context) (*big.Int, error) { return big.NewInt(11155111), nil }

func (b *fakeBackend) HeaderByNumber(context.Context, *big.Int) (*types.Header, error) {
	return &types.Header{Number: new(big.Int).SetUint64(b.head), BaseFee: big.NewInt(10)}, nil
}

func (b *fakeBackend) NonceAt(context.Context, common.Address, *big.Int) (uint64, error) {
	return b.latestNonce, nil
}

func (b *fakeBackend) PendingNonceAt(context.Context, common.Address) (uint64, error) {
	return b.pendingNonce, b.nonceErr
}

func (b *fakeBackend) SuggestGasTipCap(context.Context) (*big.Int, error) { return big.NewInt(3), nil }

func (b *fakeBackend) EstimateGas(context.Context, ethereum.CallMsg) (uint64, error) {
	return 100_000, b.estimateErr
}

func (b *fakeBackend) SendTransaction(_ context.Context, tx *types.Transaction) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.sent = append(b.sent, tx)

	return b.sendErr
}

func (b *fakeBackend) TransactionReceipt(_ context.Context, hash common.Hash) (*types.Receipt, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.hideFor > 0 {
		b.hideFor--
		return nil, ethereum.NotFound
	}

	r, ok := b.receipts[hash]
	if !ok {
		return nil, ethereum.NotFound
	}

	return r, nil
}

func attestedReceipt(hash common.Hash, uid common.Hash, status uint64) *types.Receipt {
	return &types.Receipt{
		Status:      status,
		TxHash:      hash,
		BlockNumber: big.NewInt(42),
		Logs: []*types.Log{
			{
				Address: contract,
				Topics: []common.Hash{
					attestedEventID(),
					common.BytesToHash(common.HexToAddress(recipient).Bytes()),
					{},
					common.HexToHash(schemaUID),
				},
				Data: uid.Bytes(),
			},
		},
	}
}

func newEAS(t *testing.T, b *fakeBackend) (*EAS, common.Address) {
	t.Helper()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	e := New(b, contract, common.Bytes2Hex(crypto.FromECDSA(key)), logger.New("error"), PollInterval(time.Millisecond))

	return e, crypto.PubkeyToAddress(key.PublicKey)
}

func request() entity.AttestationRequest {
	exp := time.Unix(1_900_000_000, 0)

	return entity.AttestationRequest{
		SchemaUID:  schemaUID,
		Recipient:  recipient,
		Payload:    []byte{1, 2, 3},
		Revocable:  true,
		Expiration: &exp,
	}
}

func TestEAS_Broadcast(t *testing.T) {
	b := &fakeBackend{pendingNonce: 7}
	e, from := newEAS(t, b)

	sub, err := e.Broadcast(context.Background(), request())
	require.NoError(t, err)
	require.Len(t, b.sent, 1)

	tx := b.sent[0]
	assert.Equal(t, tx.Hash().Hex(), sub.TxHash)
	assert.Equal(t, from.Hex(), sub.Attester)
	assert.Equal(t, from.Hex(), e.Attester())
	assert.Equal(t, uint64(7), sub.Nonce)

	assert.Equal(t, uint8(types.DynamicFeeTxType), tx.Type())
	assert.Equal(t, contract, *tx.To())
	assert.Equal(t, uint64(7), tx.Nonce())
	assert.Equal(t, uint64(120_000), tx.Gas())
	assert.Equal(t, big.NewInt(3), tx.GasTipCap())
	assert.Equal(t, big.NewInt(23), tx.GasFeeCap())
	assert.Equal(t, parsedABI.Methods["attest"].ID, tx.Data()[:4])

	signer, err := types.Sender(types.LatestSignerForChainID(big.NewInt(11155111)), tx)
	require.NoError(t, err)
	assert.Equal(t, from, signer)

	// calldata round trip
	args, err := parsedABI.Methods["attest"].Inputs.Unpack(tx.Data()[4:])
	require.NoError(t, err)
	require.Len(t, args, 1)
}

func TestEAS_BroadcastWithoutKey(t *testing.T) {
	b := &fakeBackend{}
	e := New(b, contract, "", logger.New("error"))

	_, err := e.Broadcast(context.Background(), request())
	assert.ErrorIs(t, err, errs.ErrSigningUnavailable)
	assert.Empty(t, b.sent)
	assert.Empty(t, e.Attester())

	e = New(b, contract, "0xnot-hex", logger.New("error"))
	_, err = e.Broadcast(context.Background(), request())
	assert.ErrorIs(t, err, errs.ErrSigningUnavailable)
}

func TestEAS_BroadcastErrors(t *testing.T) {
	tests := []struct {
		name      string
		backend   *fakeBackend
		want      error
		ambiguous bool
	}{
		{name: "estimate reverts", backend: &fakeBackend{estimateErr: rpcError{code: 3}}, want: errs.ErrSubmissionRejected},
		{name: "estimate transport", backend: &fakeBackend{estimateErr: errors.New("dial tcp: refused")}, want: errs.ErrLedgerUnavailable},
		{name: "nonce transport", backend: &fakeBackend{nonceErr: errors.New("EOF")}, want: errs.ErrLedgerUnavailable},
		{name: "node refuses", backend: &fakeBackend{sendErr: rpcError{code: -32000}}, want: errs.ErrSubmissionRejected},
		{name: "send lost", backend: &fakeBackend{sendErr: context.DeadlineExceeded}, want: errs.ErrBroadcastUnknown, ambiguous: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newEAS(t, tt.backend)

			_, err := e.Broadcast(context.Background(), request())
			assert.ErrorIs(t, err, tt.want)

			var amb *errs.AmbiguousSubmissionError
			assert.Equal(t, tt.ambiguous, errors.As(err, &amb))
			if tt.ambiguous {
				require.Len(t, tt.backend.sent, 1)
				assert.Equal(t, tt.backend.sent[0].Hash().Hex(), amb.TxHash)
				assert.Equal(t, tt.backend.sent[0].Nonce(), amb.Nonce)
				assert.Equal(t, e.Attester(), amb.Attester)
				assert.Equal(t, errs.KindAmbiguousSubmission, errs.Classify(err))
			}
		})
	}
}

func TestEAS_BroadcastBadRequest(t *testing.T) {
	e, _ := newEAS(t, &fakeBackend{})

	req := request()
	req.SchemaUID = "0x1234"
	_, err := e.Broadcast(context.Background(), req)
	assert.ErrorIs(t, err, errs.ErrSchemaMismatch)

	req = request()
	req.Recipient = "alice"
	_, err = e.Broadcast(context.Background(), req)
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestEAS_AwaitConfirmation(t *testing.T) {
	b := &fakeBackend{receipts: map[common.Hash]*types.Receipt{}, hideFor: 3}
	e, _ := newEAS(t, b)

	sub, err := e.Broadcast(context.Background(), request())
	require.NoError(t, err)

	uid := common.HexToHash("0xfeed")
	b.receipts[common.HexToHash(sub.TxHash)] = attestedReceipt(common.HexToHash(sub.TxHash), uid, types.ReceiptStatusSuccessful)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	receipt, err := e.AwaitConfirmation(ctx, sub)
	require.NoError(t, err)
	assert.Equal(t, uid.Hex(), receipt.AttestationID)
	assert.Equal(t, sub.TxHash, receipt.TxHash)
	assert.Equal(t, uint64(42), receipt.BlockNumber)
	assert.Equal(t, schemaUID, receipt.SchemaUID)
	assert.Equal(t, []byte{1, 2, 3}, receipt.Payload)
}

func TestEAS_AwaitConfirmationTimeout(t *testing.T) {
	b := &fakeBackend{receipts: map[common.Hash]*types.Receipt{}}
	e, _ := newEAS(t, b)

	sub, err := e.Broadcast(context.Background(), request())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = e.AwaitConfirmation(ctx, sub)
	assert.ErrorIs(t, err, errs.ErrConfirmationTimeout)

	var amb *errs.AmbiguousSubmissionError
	require.ErrorAs(t, err, &amb)
	assert.Equal(t, sub.TxHash, amb.TxHash)
	assert.Equal(t, sub.Attester, amb.Attester)
	assert.Equal(t, sub.Nonce, amb.Nonce)
}

func TestEAS_AwaitConfirmationReverted(t *testing.T) {
	b := &fakeBackend{receipts: map[common.Hash]*types.Receipt{}}
	e, _ := newEAS(t, b)

	sub, err := e.Broadcast(context.Background(), request())
	require.NoError(t, err)

	hash := common.HexToHash(sub.TxHash)
	b.receipts[hash] = attestedReceipt(hash, common.Hash{}, types.ReceiptStatusFailed)

	_, err = e.AwaitConfirmation(context.Background(), sub)
	assert.ErrorIs(t, err, errs.ErrSubmissionRejected)
}

func TestEAS_LookupMissingEvent(t *testing.T) {
	b := &fakeBackend{receipts: map[common.Hash]*types.Receipt{}}
	e, _ := newEAS(t, b)

	hash := common.HexToHash("0x01")
	b.receipts[hash] = &types.Receipt{Status: types.ReceiptStatusSuccessful, TxHash: hash, BlockNumber: big.NewInt(1)}

	_, found, err := e.Lookup(context.Background(), entity.Submission{TxHash: hash.Hex()})
	assert.False(t, found)
	assert.ErrorIs(t, err, errs.ErrSubmissionRejected)
}

func TestEAS_LookupPendingAndReplaced(t *testing.T) {
	b := &fakeBackend{receipts: map[common.Hash]*types.Receipt{}, latestNonce: 5}
	e, from := newEAS(t, b)

	sub := entity.Submission{TxHash: common.HexToHash("0x02").Hex(), Attester: from.Hex(), Nonce: 5}

	_, found, err := e.Lookup(context.Background(), sub)
	require.NoError(t, err)
	assert.False(t, found)

	b.latestNonce = 6
	_, found, err = e.Lookup(context.Background(), sub)
	assert.False(t, found)
	assert.ErrorIs(t, err, errs.ErrSubmissionRejected)
}

func TestEAS_LookupConfirmations(t *testing.T) {
	b := &fakeBackend{receipts: map[common.Hash]*types.Receipt{}, head: 42}
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	e := New(b, contract, common.Bytes2Hex(crypto.FromECDSA(key)), logger.New("error"), Confirmations(3))

	hash := common.HexToHash("0x03")
	b.receipts[hash] = attestedReceipt(hash, common.HexToHash("0xaa"), types.ReceiptStatusSuccessful)
	sub := entity.Submission{TxHash: hash.Hex()}

	_, found, err := e.Lookup(context.Background(), sub)
	require.NoError(t, err)
	assert.False(t, found)

	b.head = 44
	receipt, found, err := e.Lookup(context.Background(), sub)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, common.HexToHash("0xaa").Hex(), receipt.AttestationID)
}

func TestEAS_LookupHeadBehindReceipt(t *testing.T) {
	b := &fakeBackend{receipts: map[common.Hash]*types.Receipt{}, head: 40}
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	e := New(b, contract, common.Bytes2Hex(crypto.FromECDSA(key)), logger.New("error"), Confirmations(3))

	hash := common.HexToHash("0x04")
	b.receipts[hash] = attestedReceipt(hash, common.HexToHash("0xbb"), types.ReceiptStatusSuccessful)

	_, found, err := e.Lookup(context.Background(), entity.Submission{TxHash: hash.Hex()})
	require.NoError(t, err)
	assert.False(t, found)
}
