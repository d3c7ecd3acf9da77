package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingSettingsValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "string",
			},

			"timezone": bson.M{
				"bsonType": "string",
			},

			"availability": bson.M{
				"bsonType": "object",
			},

			"is_24x7": bson.M{
				"bsonType": "bool",
			},

			"allow_open_events": bson.M{
				"bsonType": "bool",
			},

			"updated_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
