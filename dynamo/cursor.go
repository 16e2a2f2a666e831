package dynamo

import (
	"encoding/base64"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// encodeCursor turns the key of the last item handed out into an opaque,
// query string safe page token.
func encodeCursor(keyNames []string, item map[string]types.AttributeValue) (string, error) {
	bytesJSON, err := attributevalue.MarshalMapJSON(getKeyFromItem(keyNames, item))
	if err != nil {
		return "", fmt.Errorf("failed to encode to JSON: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(bytesJSON), nil
}

// decodeCursor reverses encodeCursor. Tokens carrying anything other than
// exactly the key attributes are rejected.
func decodeCursor(keyNames []string, cursor string) (map[string]types.AttributeValue, error) {
	bytesJSON, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return nil, fmt.Errorf("failed to b64 decode: %w", err)
	}

	key, err := attributevalue.UnmarshalMapJSON(bytesJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to json decode: %w", err)
	}

	if len(key) != len(keyNames) {
		return nil, fmt.Errorf("cursor has %d attributes, want %d", len(key), len(keyNames))
	}
	for _, k := range keyNames {
		if _, ok := key[k].(*types.AttributeValueMemberS); !ok {
			return nil, fmt.Errorf("cursor is missing string key %q", k)
		}
	}

	return key, nil
}

func getKeyFromItem(keyNames []string, item map[string]types.AttributeValue) map[string]types.AttributeValue {
	result := make(map[string]types.AttributeValue, len(keyNames))
	for _, k := range keyNames {
		result[k] = item[k]
	}
	return result
}
