package mysql

const destinationCols = "id, name, location, description, price_per_night, rating, image_url, amenities, max_guests, source_data, created_at"

// Multi-row upsert: prefix + "(?,...),(?,...)" + suffix.
const upsertDestinationsPrefix = "INSERT INTO destinations\n  (id, name, location, description, price_per_night, rating, image_url, amenities, max_guests, source_data)\nVALUES "

const upsertDestinationsOnDup = " ON DUPLICATE KEY UPDATE\n" +
	"  name            = VALUES(name),\n" +
	"  location        = VALUES(location),\n" +
	"  description     = VALUES(description),\n" +
	"  price_per_night = VALUES(price_per_night),\n" +
	"  rating          = VALUES(rating),\n" +
	"  image_url       = VALUES(image_url),\n" +
	"  amenities       = VALUES(amenities),\n" +
	"  max_guests      = VALUES(max_guests),\n" +
	"  source_data     = COALESCE(VALUES(source_data), destinations.source_data)\n"

const getDestinationSQL = "SELECT " + destinationCols + " FROM destinations WHERE id = ?"

// Best rated first; name breaks ties so pages are stable.
const listDestinationsSQL = "SELECT " + destinationCols + " FROM destinations ORDER BY rating DESC, name ASC"

const insertBookingSQL = `
INSERT INTO bookings
  (id, user_id, destination_id, check_in_date, check_out_date, guests, total_price, status, created_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const listBookingsSQL = `
SELECT id, user_id, destination_id, check_in_date, check_out_date, guests, total_price, status, created_at
FROM bookings
WHERE user_id = ?
ORDER BY created_at DESC, id ASC
`

const updateBookingStatusSQL = "UPDATE bookings SET status = ? WHERE id = ? AND user_id = ?"

// MySQL reports 0 affected rows when the value didn't change; this tells
// "already in that state" apart from "not yours / not there".
const bookingExistsSQL = "SELECT 1 FROM bookings WHERE id = ? AND user_id = ?"

const getProfileSQL = "SELECT id, first_name, last_name, email, phone, updated_at FROM profiles WHERE id = ?"

const upsertProfileSQL = `
INSERT INTO profiles (id, first_name, last_name, email, phone)
VALUES (?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  first_name = VALUES(first_name),
  last_name  = VALUES(last_name),
  email      = VALUES(email),
  phone      = VALUES(phone)
`

const insertUserSQL = "INSERT INTO users (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)"

const getUserByEmailSQL = "SELECT id, email, password_hash, created_at FROM users WHERE email = ?"
