package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"event_type_id",
			"start_time",
			"end_time",
			"guest_name",
			"guest_email",
			"status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "string",
			},

			"event_type_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"event_type_name": bson.M{
				"bsonType": "string",
			},

			"start_time": bson.M{
				"bsonType": "date",
			},

			"end_time": bson.M{
				"bsonType": "date",
			},

			"guest_name": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 200,
			},

			"guest_email": bson.M{
				"bsonType":  "string",
				"minLength": 3,
			},

			"status": bson.M{
				"enum": []string{"pending", "confirmed", "cancelled", "completed"},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
