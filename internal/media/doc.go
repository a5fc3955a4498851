// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

/*
Package media stores uploaded files next to the triplestore records that
point at them, and removes them in a fixed order.

Files live under the upload folder, one directory per object:

	<upload_folder>/<objeto_id>/<uuid-hex>.<ext>
	<upload_folder>/<objeto_id>/excluidos/<name>   (removed files)

A removal must never leave the catalog pointing at a file that was moved
away. Remover therefore runs:

 1. write a removal intent to the Badger journal
 2. delete the schema:associatedMedia triple(s)
 3. move the file to excluidos
 4. confirm the intent

A failed deletion drops the intent and leaves the file alone. A failed move
keeps the intent pending; RecoveryService replays pending intents at
startup and on every retry interval. Both steps are idempotent, so a replay
after a crash anywhere in the sequence converges.

RecoveryService implements suture.Service and runs in the data layer of
the supervisor tree.
*/
package media
