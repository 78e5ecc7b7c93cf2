package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"math/big"

	"github.com/AlexZinkM/enchanted-vault/internal/common"
	"github.com/AlexZinkM/enchanted-vault/internal/errs"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/params"
)

// TransactionType is the EIP-2718 envelope type.
type TransactionType uint64

const (
	TransactionTypeLegacy     TransactionType = types.LegacyTxType
	TransactionTypeAccessList TransactionType = types.AccessListTxType
	TransactionTypeDynamicFee TransactionType = types.DynamicFeeTxType
)

// Quantity is an unsigned integer that unmarshals from a JSON number,
// a decimal string or a 0x-prefixed hex string.
type Quantity struct {
	v *big.Int
}

// NewQuantity wraps v.
func NewQuantity(v int64) *Quantity {
	return &Quantity{v: big.NewInt(v)}
}

func (q *Quantity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	s := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	}
	v, err := common.ParseQuantity(s)
	if err != nil {
		return err
	}
	q.v = v
	return nil
}

func (q *Quantity) MarshalJSON() ([]byte, error) {
	return json.Marshal((*hexutil.Big)(q.Big()))
}

// Big returns the value, or nil if q is unset.
func (q *Quantity) Big() *big.Int {
	if q == nil || q.v == nil {
		return nil
	}
	return new(big.Int).Set(q.v)
}

// Uint64 returns the value if it fits in 64 bits.
func (q *Quantity) Uint64() (uint64, bool) {
	if q == nil || q.v == nil || !q.v.IsUint64() {
		return 0, false
	}
	return q.v.Uint64(), true
}

// TransactionRequest represents the caller-supplied transaction fields
type TransactionRequest struct {
	Type                 *Quantity         `json:"type,omitempty"`
	ChainID              *Quantity         `json:"chainId"`
	Nonce                *Quantity         `json:"nonce"`
	To                   *string           `json:"to,omitempty"`
	Value                *Quantity         `json:"value,omitempty"`
	Gas                  *Quantity         `json:"gas"`
	GasPrice             *Quantity         `json:"gasPrice,omitempty"`
	MaxFeePerGas         *Quantity         `json:"maxFeePerGas,omitempty"`
	MaxPriorityFeePerGas *Quantity         `json:"maxPriorityFeePerGas,omitempty"`
	Data                 hexutil.Bytes     `json:"data,omitempty"`
	AccessList           *types.AccessList `json:"accessList,omitempty"`
}

// transactionTypeInvalid stands in for an explicit type that does not fit
// in 64 bits.
const transactionTypeInvalid TransactionType = math.MaxUint64

// TxType returns the envelope type implied by the explicit type field or by
// the fee fields present.
func (r *TransactionRequest) TxType() TransactionType {
	if r.Type.Big() != nil {
		t, ok := r.Type.Uint64()
		if !ok {
			return transactionTypeInvalid
		}
		return TransactionType(t)
	}
	switch {
	case r.MaxFeePerGas != nil || r.MaxPriorityFeePerGas != nil:
		return TransactionTypeDynamicFee
	case r.AccessList != nil:
		return TransactionTypeAccessList
	default:
		return TransactionTypeLegacy
	}
}

// Validate validates TransactionRequest fields.
// expectedChainID may be nil, in which case any positive chain id is accepted.
func (r *TransactionRequest) Validate(expectedChainID *big.Int) error {
	if r.Type.Big() != nil {
		if _, ok := r.Type.Uint64(); !ok {
			return errs.Formatf("transaction type %s out of range", r.Type.Big())
		}
	}
	chainID := r.ChainID.Big()
	if chainID == nil {
		return errs.Formatf("chainId is required")
	}
	if chainID.Sign() <= 0 {
		return errs.Formatf("chainId must be positive")
	}
	if expectedChainID != nil && chainID.Cmp(expectedChainID) != 0 {
		return errs.Formatf("chainId %s does not match expected chain %s", chainID, expectedChainID)
	}
	if _, ok := r.Nonce.Uint64(); !ok {
		return errs.Formatf("nonce is required and must fit in 64 bits")
	}
	gas, ok := r.Gas.Uint64()
	if !ok {
		return errs.Formatf("gas is required and must fit in 64 bits")
	}
	if gas < params.TxGas {
		return errs.Formatf("gas must be at least %d", params.TxGas)
	}
	if r.To != nil {
		if !ethcommon.IsHexAddress(*r.To) {
			return errs.Formatf("invalid recipient address %q", *r.To)
		}
	} else if len(r.Data) == 0 {
		return errs.Formatf("to is required unless data carries contract creation code")
	}

	legacyFees := r.GasPrice != nil
	dynamicFees := r.MaxFeePerGas != nil || r.MaxPriorityFeePerGas != nil
	switch txType := r.TxType(); txType {
	case TransactionTypeLegacy, TransactionTypeAccessList:
		if dynamicFees {
			return errs.Formatf("transaction type %d does not take maxFeePerGas/maxPriorityFeePerGas", txType)
		}
		if !legacyFees {
			return errs.Formatf("gasPrice is required")
		}
		if txType == TransactionTypeLegacy && r.AccessList != nil {
			return errs.Formatf("legacy transactions cannot carry an access list")
		}
	case TransactionTypeDynamicFee:
		if legacyFees {
			return errs.Formatf("gasPrice cannot be combined with maxFeePerGas/maxPriorityFeePerGas")
		}
		if r.MaxFeePerGas == nil || r.MaxPriorityFeePerGas == nil {
			return errs.Formatf("maxFeePerGas and maxPriorityFeePerGas are both required")
		}
		if r.MaxPriorityFeePerGas.Big().Cmp(r.MaxFeePerGas.Big()) > 0 {
			return errs.Formatf("maxPriorityFeePerGas exceeds maxFeePerGas")
		}
	default:
		return errs.Formatf("unsupported transaction type %d", txType)
	}
	return nil
}

// String summarises the request without the calldata.
func (r *TransactionRequest) String() string {
	to := "<create>"
	if r.To != nil {
		to = *r.To
	}
	return fmt.Sprintf("type=%d chain=%v nonce=%v to=%s value=%s", r.TxType(), r.ChainID.Big(), r.Nonce.Big(), to, common.WeiToEther(r.Value.Big()))
}
