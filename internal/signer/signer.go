// Package signer parses transaction requests and signs them with go-ethereum.
package signer

import (
	"bytes"
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/AlexZinkM/enchanted-vault/internal/errs"
	"github.com/AlexZinkM/enchanted-vault/internal/model"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Parse decodes a JSON transaction request. Unknown fields are rejected so
// that a misspelt fee field cannot silently fall back to a default.
func Parse(data []byte) (*model.TransactionRequest, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errs.ErrInputRequired
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var req model.TransactionRequest
	if err := dec.Decode(&req); err != nil {
		return nil, errs.Formatf("failed to parse transaction: %v", err)
	}
	if dec.More() {
		return nil, errs.Formatf("trailing data after transaction object")
	}
	return &req, nil
}

// Build validates req and assembles the unsigned transaction.
func Build(req *model.TransactionRequest, expectedChainID *big.Int) (*types.Transaction, error) {
	if err := req.Validate(expectedChainID); err != nil {
		return nil, err
	}

	nonce, _ := req.Nonce.Uint64()
	gas, _ := req.Gas.Uint64()
	value := req.Value.Big()
	if value == nil {
		value = new(big.Int)
	}
	var to *common.Address
	if req.To != nil {
		addr := common.HexToAddress(*req.To)
		to = &addr
	}
	var accessList types.AccessList
	if req.AccessList != nil {
		accessList = *req.AccessList
	}

	switch req.TxType() {
	case model.TransactionTypeDynamicFee:
		return types.NewTx(&types.DynamicFeeTx{
			ChainID:    req.ChainID.Big(),
			Nonce:      nonce,
			GasTipCap:  req.MaxPriorityFeePerGas.Big(),
			GasFeeCap:  req.MaxFeePerGas.Big(),
			Gas:        gas,
			To:         to,
			Value:      value,
			Data:       req.Data,
			AccessList: accessList,
		}), nil
	case model.TransactionTypeAccessList:
		return types.NewTx(&types.AccessListTx{
			ChainID:    req.ChainID.Big(),
			Nonce:      nonce,
			GasPrice:   req.GasPrice.Big(),
			Gas:        gas,
			To:         to,
			Value:      value,
			Data:       req.Data,
			AccessList: accessList,
		}), nil
	default:
		return types.NewTx(&types.LegacyTx{
			Nonce:    nonce,
			GasPrice: req.GasPrice.Big(),
			Gas:      gas,
			To:       to,
			Value:    value,
			Data:     req.Data,
		}), nil
	}
}

// Sign builds and signs req with key. Legacy transactions are signed with
// EIP-155 replay protection for the request's chain id.
func Sign(key *ecdsa.PrivateKey, req *model.TransactionRequest, expectedChainID *big.Int) (*types.Transaction, error) {
	tx, err := Build(req, expectedChainID)
	if err != nil {
		return nil, err
	}
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(req.ChainID.Big()), key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}
	return signed, nil
}

// Encode returns the EIP-2718 binary encoding of tx.
func Encode(tx *types.Transaction) ([]byte, error) {
	raw, err := tx.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("failed to encode transaction: %w", err)
	}
	return raw, nil
}

// Decode parses an encoded signed transaction and recovers its sender.
func Decode(raw []byte) (*types.Transaction, common.Address, error) {
	tx := new(types.Transaction)
	if err := tx.UnmarshalBinary(raw); err != nil {
		return nil, common.Address{}, errs.Formatf("failed to decode transaction: %v", err)
	}
	from, err := types.Sender(types.LatestSignerForChainID(tx.ChainId()), tx)
	if err != nil {
		return nil, common.Address{}, fmt.Errorf("failed to recover sender: %w", err)
	}
	return tx, from, nil
}
