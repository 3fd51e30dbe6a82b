package mysql

const getSlotSQL = `
SELECT payload
FROM catalog_slots
WHERE slot_key = ?
`

// version counts writes; it is informational and never read back.
const putSlotSQL = `
INSERT INTO catalog_slots (slot_key, payload, version)
VALUES (?, ?, 1)
ON DUPLICATE KEY UPDATE
  payload    = VALUES(payload),
  version    = catalog_slots.version + 1,
  updated_at = CURRENT_TIMESTAMP
`

const createSlotsSQL = `
CREATE TABLE IF NOT EXISTS catalog_slots (
  slot_key   VARCHAR(191) NOT NULL PRIMARY KEY,
  payload    LONGTEXT     NOT NULL,
  version    INT          NOT NULL DEFAULT 0,
  updated_at TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4
`
