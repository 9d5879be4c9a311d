package utility

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ToMap chuyển đổi struct thành map[string]interface{} thông qua BSON marshal.
// Dùng cho các thao tác insert/update cần thêm field động (timestamps).
func ToMap(s interface{}) (map[string]interface{}, error) {
	raw, err := bson.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("lỗi khi chuyển đổi struct thành BSON: %w", err)
	}

	var result map[string]interface{}
	if err := bson.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("lỗi khi chuyển đổi BSON thành map: %w", err)
	}

	// Bỏ _id rỗng để MongoDB tự sinh ObjectID khi insert
	if id, ok := result["_id"]; ok {
		if objID, ok := id.(primitive.ObjectID); ok && objID.IsZero() {
			delete(result, "_id")
		}
	}

	return result, nil
}
