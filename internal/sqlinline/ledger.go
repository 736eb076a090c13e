package sqlinline

const QUpsertLedgerSnapshot = `--sql 5cb31f51-9af3-434d-9a27-b32fcb1f9067
insert into ledger_snapshots(contract, owner, price_feed, held_wei, updated_at)
values ($1::text, $2::text, $3::text, $4::text::numeric, $5::timestamptz)
on conflict (contract) do update
set held_wei = excluded.held_wei, updated_at = excluded.updated_at;
`

const QDeleteLedgerBalances = `--sql da973020-a2bf-4268-bfc5-06abe7ef9378
delete from ledger_balances
where contract = $1::text;
`

const QInsertLedgerBalance = `--sql 55338d7c-5362-47d1-aad5-1d9e2017166c
insert into ledger_balances(contract, position, funder, amount_wei)
values ($1::text, $2::int, $3::text, $4::text::numeric);
`

const QInsertLedgerEvent = `--sql f841ebe9-4419-4631-a288-0e5c8f41437f
insert into ledger_events(id, contract, kind, address, amount_wei, created_at)
values ($1::uuid, $2::text, $3::text, $4::text, $5::text::numeric, $6::timestamptz);
`

const QSelectLedgerSnapshot = `--sql 0b24cb3b-6abb-4bd3-9337-394662a2d68c
select owner, price_feed, held_wei::text, updated_at
from ledger_snapshots
where contract = $1::text;
`

const QSelectLedgerBalances = `--sql d8093c40-28f7-4fbf-8433-c44115f23083
select funder, amount_wei::text
from ledger_balances
where contract = $1::text
order by position asc;
`

const QListLedgerEvents = `--sql 522a2d0f-721a-410d-bf13-26be2eef9b55
select id::text, kind, address, amount_wei::text, created_at
from ledger_events
where contract = $1::text
order by created_at desc, id desc
limit $2::int;
`
