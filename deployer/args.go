package deployer

import (
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	ecommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"

	. "github.com/archoncloud/chainsphere-ignition/common"
)

var (
	ErrArityMismatch   = errors.New("constructor argument count mismatch")
	ErrBadAddress      = errors.New("invalid address")
	ErrBadValue        = errors.New("invalid argument value")
	ErrUnsupportedType = errors.New("unsupported constructor argument type")
)

// ConvertConstructorArgs converts the string arguments of a future to the Go values
// expected by the constructor of parsed, so they can be abi packed
func ConvertConstructorArgs(parsed abi.ABI, args []string) ([]interface{}, error) {
	inputs := parsed.Constructor.Inputs
	if len(inputs) != len(args) {
		return nil, errors.Wrapf(ErrArityMismatch, "constructor takes %d, got %d", len(inputs), len(args))
	}
	params := make([]interface{}, len(args))
	for i, input := range inputs {
		v, err := convertArg(input.Type, args[i])
		if err != nil {
			return nil, errors.Wrapf(err, "argument %d (%s %s)", i, input.Type.String(), input.Name)
		}
		params[i] = v
	}
	return params, nil
}

func convertArg(t abi.Type, s string) (interface{}, error) {
	switch t.T {
	case abi.AddressTy:
		return convertAddress(s)
	case abi.StringTy:
		return s, nil
	case abi.BoolTy:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, errors.Wrapf(ErrBadValue, "%q is not a bool", s)
		}
		return b, nil
	case abi.UintTy, abi.IntTy:
		return convertInteger(t, s)
	case abi.BytesTy:
		b, err := hexutil.Decode(s)
		if err != nil {
			return nil, errors.Wrapf(ErrBadValue, "%q is not 0x prefixed hex", s)
		}
		return b, nil
	case abi.FixedBytesTy:
		b, err := hexutil.Decode(s)
		if err != nil || len(b) != t.Size {
			return nil, errors.Wrapf(ErrBadValue, "%q is not %d bytes of 0x prefixed hex", s, t.Size)
		}
		arr := reflect.New(reflect.ArrayOf(t.Size, reflect.TypeOf(byte(0)))).Elem()
		reflect.Copy(arr, reflect.ValueOf(b))
		return arr.Interface(), nil
	}
	return nil, errors.Wrap(ErrUnsupportedType, t.String())
}

func convertAddress(s string) (ecommon.Address, error) {
	if !ecommon.IsHexAddress(s) || !strings.HasPrefix(s, "0x") {
		return ecommon.Address{}, errors.Wrapf(ErrBadAddress, "%q", s)
	}
	addr := ecommon.HexToAddress(s)
	if hasMixedCase(s[2:]) && addr.Hex() != s {
		LogWarning.Printf("Address %s does not match its checksum form %s\n", s, addr.Hex())
	}
	return addr, nil
}

func hasMixedCase(s string) bool {
	return strings.ToLower(s) != s && strings.ToUpper(s) != s
}

func convertInteger(t abi.Type, s string) (interface{}, error) {
	n, ok := new(big.Int).SetString(s, 0)
	if !ok {
		return nil, errors.Wrapf(ErrBadValue, "%q is not an integer", s)
	}
	signed := t.T == abi.IntTy
	if !signed && n.Sign() < 0 {
		return nil, errors.Wrapf(ErrBadValue, "%s cannot be negative", t.String())
	}
	bits := n.BitLen()
	if signed {
		if n.Sign() < 0 {
			// two's complement: -2^(k-1) needs k bits
			bits = new(big.Int).Add(n, big.NewInt(1)).BitLen()
		}
		bits++
	}
	if bits > t.Size {
		return nil, errors.Wrapf(ErrBadValue, "%s does not fit in %s", s, t.String())
	}
	if t.Size > 64 {
		return n, nil
	}
	// Small sizes are packed from the matching Go type
	if signed {
		v := n.Int64()
		switch t.Size {
		case 8:
			return int8(v), nil
		case 16:
			return int16(v), nil
		case 32:
			return int32(v), nil
		case 64:
			return v, nil
		}
	} else {
		v := n.Uint64()
		switch t.Size {
		case 8:
			return uint8(v), nil
		case 16:
			return uint16(v), nil
		case 32:
			return uint32(v), nil
		case 64:
			return v, nil
		}
	}
	return n, nil
}
