package validators

import "go.mongodb.org/mongo-driver/bson"

var LeadValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"name",
			"email",
			"source",
			"status",
			"priority",
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
				"maxLength": 200,
			},

			"email": bson.M{
				"bsonType":  "string",
				"minLength": 3,
			},

			"source": bson.M{
				"enum": []string{"website", "chatbot", "referral", "social", "other"},
			},

			"status": bson.M{
				"enum": []string{"new", "contacted", "qualified", "converted", "lost"},
			},

			"priority": bson.M{
				"enum": []string{"low", "medium", "high", "urgent"},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},

			"updated_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
