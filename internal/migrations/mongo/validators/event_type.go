package validators

import "go.mongodb.org/mongo-driver/bson"

var EventTypeValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"name",
			"duration_min",
			"is_active",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "string",
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 100,
			},

			"slug": bson.M{
				"bsonType":  "string",
				"maxLength": 100,
			},

			"duration_min": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  1440,
			},

			"is_active": bson.M{
				"bsonType": "bool",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
