package ledger

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// easABI covers the part of the EAS contract the service calls.
const easABI = `[
  {
    "type": "function",
    "name": "attest",
    "stateMutability": "payable",
    "inputs": [
      {
        "name": "request",
        "type": "tuple",
        "components": [
          {"name": "schema", "type": "bytes32"},
          {
            "name": "data",
            "type": "tuple",
            "components": [
              {"name": "recipient", "type": "address"},
              {"name": "expirationTime", "type": "uint64"},
              {"name": "revocable", "type": "bool"},
              {"name": "refUID", "type": "bytes32"},
              {"name": "data", "type": "bytes"},
              {"name": "value", "type": "uint256"}
            ]
          }
        ]
      }
    ],
    "outputs": [{"name": "", "type": "bytes32"}]
  },
  {
    "type": "event",
    "name": "Attested",
    "anonymous": false,
    "inputs": [
      {"name": "recipient", "type": "address", "indexed": true},
      {"name": "attester", "type": "address", "indexed": true},
      {"name": "uid", "type": "bytes32", "indexed": false},
      {"name": "schemaUID", "type": "bytes32", "indexed": true}
    ]
  }
]`

var parsedABI = mustParseABI()

func mustParseABI() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(easABI))
	if err != nil {
		panic(err)
	}

	return parsed
}

type attestationRequestData struct {
	Recipient      common.Address
	ExpirationTime uint64
	Revocable      bool
	RefUID         [32]byte
	Data           []byte
	Value          *big.Int
}

type attestationRequest struct {
	Schema [32]byte
	Data   attestationRequestData
}

func packAttest(req attestationRequest) ([]byte, error) {
	return parsedABI.Pack("attest", req)
}

func attestedEventID() common.Hash {
	return parsedABI.Events["Attested"].ID
}

// unpackAttestedUID reads the non-indexed uid out of an Attested log.
func unpackAttestedUID(data []byte) (common.Hash, error) {
	values, err := parsedABI.Unpack("Attested", data)
	if err != nil {
		return common.Hash{}, err
	}

	uid, ok := values[0].([32]byte)
	if !ok {
		return common.Hash{}, errUnexpectedLog
	}

	return uid, nil
}
